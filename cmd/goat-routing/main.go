package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	catchment "github.com/96hoshi/goat-routing"
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
)

var (
	osmFileName = flag.String("file", "my_graph.osm.pbf", "Filename of *.osm.pbf file with the street network")
	configFile  = flag.String("config", "", "Optional YAML configuration file")
	originsStr  = flag.String("origins", "", "Origin points as 'lat,lon' pairs separated by semicolons. E.g.: '52.5163,13.3777;52.5208,13.4094'")
	modeStr     = flag.String("mode", "pedestrian", "Transport mode. Expected values: pedestrian / bicycle / pedelec / car")
	budgetKind  = flag.String("budget", "time", "Budget kind. Expected values: time (seconds) / distance (meters)")
	budgetValue = flag.Float64("value", 900, "Budget value: seconds for time budgets, meters for distance budgets")
	resultType  = flag.String("result", "polygon", "Result type. Expected values: polygon / network / grid")
	steps       = flag.Int("steps", 0, "Number of isochrone threshold bands (0 uses the configured default)")
	percentile  = flag.Int("percentile", -1, "Contour smoothing percentile within [0, 100] (negative uses the configured default)")
	ringDiff    = flag.Bool("diff", false, "Emit donut rings instead of nested full areas")
	redisAddr   = flag.String("redis", "", "Optional Redis address for the job status store. E.g.: 'localhost:6379'")
	out         = flag.String("out", "catchment.geojson", "Filename of output GeoJSON file")
)

// fileResultStore persists the final artifact as a GeoJSON file
type fileResultStore struct {
	fname string
}

func (s *fileResultStore) write(fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(s.fname, data, 0o644)
}

func (s *fileResultStore) PersistPolygons(jobID string, polygons *geojson.FeatureCollection) error {
	return s.write(polygons)
}

func (s *fileResultStore) PersistNetwork(jobID string, features *geojson.FeatureCollection) error {
	return s.write(features)
}

func (s *fileResultStore) PersistGrid(jobID string, cells []catchment.GridCell) error {
	return s.write(catchment.GridFeatures(cells))
}

func parseOrigins(value string) ([]orb.Point, error) {
	origins := []orb.Point{}
	for _, pair := range strings.Split(value, ";") {
		parts := strings.Split(strings.TrimSpace(pair), ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad origin '%s', expected 'lat,lon'", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, err
		}
		origins = append(origins, orb.Point{lon, lat})
	}
	return origins, nil
}

func main() {
	flag.Parse()
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := catchment.DefaultConfig()
	if *configFile != "" {
		loaded, err := catchment.LoadConfig(*configFile)
		if err != nil {
			fmt.Println(err)
			return
		}
		cfg = loaded
	}

	origins, err := parseOrigins(*originsStr)
	if err != nil {
		fmt.Println(err)
		return
	}
	mode, err := catchment.ParseMode(*modeStr)
	if err != nil {
		fmt.Println(err)
		return
	}

	budget := catchment.CostBudget{Kind: catchment.BUDGET_TIME, Value: *budgetValue}
	if strings.ToLower(*budgetKind) == "distance" {
		budget.Kind = catchment.BUDGET_DISTANCE
	}

	var rt catchment.ResultType
	switch strings.ToLower(*resultType) {
	case "polygon":
		rt = catchment.RESULT_POLYGON
	case "network":
		rt = catchment.RESULT_NETWORK
	case "grid":
		rt = catchment.RESULT_GRID
	default:
		fmt.Printf("Unknown result type '%s'\n", *resultType)
		return
	}

	db := catchment.NewOSMNetworkDatabase(*osmFileName, cfg.SnapRadiusM, log)
	store := catchment.NewNetworkStore(db, cfg.CacheDir, log)
	if err := store.Open(); err != nil {
		fmt.Println(err)
		return
	}
	defer store.Close()

	var status catchment.JobStatusStore
	if *redisAddr != "" {
		redisStore := catchment.NewRedisStatusStore(*redisAddr)
		defer redisStore.Close()
		status = redisStore
	} else {
		status = catchment.NewMemoryStatusStore()
	}

	req := catchment.Request{
		Origins:           origins,
		Mode:              mode,
		Budget:            budget,
		ResultType:        rt,
		PolygonDifference: *ringDiff,
		Steps:             *steps,
	}
	if *percentile >= 0 {
		req.Percentile = percentile
	}

	pipeline := catchment.NewPipeline(store, db, status, &fileResultStore{fname: *out}, cfg, log)
	job := pipeline.Run(context.Background(), req)
	if job.Err != nil {
		fmt.Println(job.Err)
		return
	}
	fmt.Printf("Job %s finished with status '%s', result written to %s\n", job.ID, job.Status, *out)
}
