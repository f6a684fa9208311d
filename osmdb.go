package catchment

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"
)

// highwayClasses maps OSM highway tag values to edge classes. Unlisted tag
// values are skipped during import.
var highwayClasses = map[string]EdgeClass{
	"motorway":       CLASS_MOTORWAY,
	"motorway_link":  CLASS_MOTORWAY_LINK,
	"trunk":          CLASS_TRUNK,
	"trunk_link":     CLASS_TRUNK_LINK,
	"primary":        CLASS_PRIMARY,
	"primary_link":   CLASS_PRIMARY,
	"secondary":      CLASS_SECONDARY,
	"secondary_link": CLASS_SECONDARY,
	"tertiary":       CLASS_TERTIARY,
	"tertiary_link":  CLASS_TERTIARY,
	"residential":    CLASS_RESIDENTIAL,
	"living_street":  CLASS_LIVING_STREET,
	"unclassified":   CLASS_UNCLASSIFIED,
	"service":        CLASS_SERVICE,
	"track":          CLASS_TRACK,
	"cycleway":       CLASS_CYCLEWAY,
	"path":           CLASS_PATH,
	"pedestrian":     CLASS_PEDESTRIAN,
	"footway":        CLASS_FOOTWAY,
	"steps":          CLASS_STEPS,
}

// defaultClassSpeeds substitutes missing maxspeed tags (km/h)
var defaultClassSpeeds = map[EdgeClass]float64{
	CLASS_MOTORWAY:      110,
	CLASS_MOTORWAY_LINK: 60,
	CLASS_TRUNK:         90,
	CLASS_TRUNK_LINK:    50,
	CLASS_PRIMARY:       70,
	CLASS_SECONDARY:     60,
	CLASS_TERTIARY:      50,
	CLASS_RESIDENTIAL:   30,
	CLASS_LIVING_STREET: 10,
	CLASS_UNCLASSIFIED:  50,
	CLASS_SERVICE:       30,
	CLASS_TRACK:         20,
	CLASS_CYCLEWAY:      20,
	CLASS_PATH:          10,
	CLASS_PEDESTRIAN:    10,
	CLASS_FOOTWAY:       10,
	CLASS_STEPS:         5,
	CLASS_CROSSWALK:     10,
}

// OSMNetworkDatabase implements NetworkDatabase over an OSM extract of
// PBF-format, letting the pipeline run without an external network service.
// The extract is scanned once, lazily, and partitioned by coarse cell.
type OSMNetworkDatabase struct {
	fileName    string
	snapRadiusM float64
	log         *slog.Logger

	loadOnce sync.Once
	loadErr  error

	partitions map[CellID][]Edge
	snapper    *edgeSnapper

	mu        sync.RWMutex
	scenarios map[string]*ScenarioOverlay
}

// NewOSMNetworkDatabase returns a database over given *.osm.pbf file
func NewOSMNetworkDatabase(fileName string, snapRadiusM float64, log *slog.Logger) *OSMNetworkDatabase {
	if log == nil {
		log = slog.Default()
	}
	return &OSMNetworkDatabase{
		fileName:    fileName,
		snapRadiusM: snapRadiusM,
		log:         log,
		scenarios:   make(map[string]*ScenarioOverlay),
	}
}

// RegisterScenario makes a scenario overlay resolvable by id
func (db *OSMNetworkDatabase) RegisterScenario(overlay *ScenarioOverlay) {
	db.mu.Lock()
	db.scenarios[overlay.ID] = overlay
	db.mu.Unlock()
}

// FetchPartition implements NetworkDatabase
func (db *OSMNetworkDatabase) FetchPartition(ctx context.Context, cell CellID) ([]Edge, error) {
	if err := db.load(ctx); err != nil {
		return nil, err
	}
	return db.partitions[cell], nil
}

// FetchScenarioOverlay implements NetworkDatabase
func (db *OSMNetworkDatabase) FetchScenarioOverlay(ctx context.Context, scenarioID string) (*ScenarioOverlay, error) {
	db.mu.RLock()
	overlay, ok := db.scenarios[scenarioID]
	db.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrInvalidScenario, "scenario '%s'", scenarioID)
	}
	return overlay, nil
}

// SnapPoint implements NetworkDatabase
func (db *OSMNetworkDatabase) SnapPoint(ctx context.Context, pt orb.Point, mode Mode) ([]OriginConnector, error) {
	if err := db.load(ctx); err != nil {
		return nil, err
	}
	return db.snapper.Snap(pt, mode)
}

func (db *OSMNetworkDatabase) load(ctx context.Context) error {
	db.loadOnce.Do(func() {
		st := time.Now()
		edges, err := db.importEdges(ctx)
		if err != nil {
			db.loadErr = err
			return
		}
		db.partitions = make(map[CellID][]Edge)
		for _, edge := range edges {
			db.partitions[edge.CellCoarse] = append(db.partitions[edge.CellCoarse], edge)
		}
		flat := make([]Edge, len(edges))
		copy(flat, edges)
		db.snapper = newEdgeSnapper(flat, db.snapRadiusM)
		db.log.Info("OSM extract imported", "file", db.fileName, "edges", len(edges), "partitions", len(db.partitions), "elapsed", time.Since(st))
	})
	return db.loadErr
}

// importedWay is one eligible highway way collected on the first scan pass
type importedWay struct {
	nodes    osm.WayNodes
	class    EdgeClass
	oneway   bool
	maxspeed float64
}

// importEdges scans the extract twice: first pass collects eligible ways and
// node usage, second pass resolves node geometry. Ways are split into edges
// at intersection nodes.
func (db *OSMNetworkDatabase) importEdges(ctx context.Context) ([]Edge, error) {
	f, err := os.Open(db.fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()

	scannerWays := osmpbf.New(ctx, f, 4)
	ways := []importedWay{}
	useCount := make(map[osm.NodeID]int)
	for scannerWays.Scan() {
		obj := scannerWays.Object()
		if obj.ObjectID().Type() != "way" {
			continue
		}
		way := obj.(*osm.Way)
		tagMap := way.TagMap()
		tag, ok := tagMap["highway"]
		if !ok {
			continue
		}
		class, ok := highwayClasses[tag]
		if !ok {
			continue
		}
		if class == CLASS_FOOTWAY && tagMap["footway"] == "crossing" {
			class = CLASS_CROSSWALK
		}
		oneway := false
		if v, ok := tagMap["oneway"]; ok && (v == "yes" || v == "1") {
			oneway = true
		}
		// Falling back to a class default keeps MaxSpeedRev == 0 an
		// unambiguous one-way marker.
		maxspeed := defaultClassSpeeds[class]
		if v, ok := tagMap["maxspeed"]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
				maxspeed = parsed
			}
		}
		for _, wn := range way.Nodes {
			useCount[wn.ID]++
		}
		ways = append(ways, importedWay{nodes: way.Nodes, class: class, oneway: oneway, maxspeed: maxspeed})
	}
	scannerWays.Close()

	if _, err := f.Seek(0, 0); err != nil {
		return nil, errors.Wrap(err, "File seek")
	}
	scannerNodes := osmpbf.New(ctx, f, 4)
	defer scannerNodes.Close()
	nodeGeom := make(map[osm.NodeID]orb.Point)
	for scannerNodes.Scan() {
		obj := scannerNodes.Object()
		if obj.ObjectID().Type() != "node" {
			continue
		}
		node := obj.(*osm.Node)
		if _, ok := useCount[node.ID]; ok {
			nodeGeom[node.ID] = orb.Point{node.Lon, node.Lat}
		}
	}

	return assembleWayEdges(ways, nodeGeom, useCount), nil
}

// assembleWayEdges splits collected ways into edges at nodes shared by more
// than one way
func assembleWayEdges(ways []importedWay, nodeGeom map[osm.NodeID]orb.Point, useCount map[osm.NodeID]int) []Edge {
	edges := []Edge{}
	nextEdgeID := EdgeID(1)
	for _, way := range ways {
		geom := orb.LineString{}
		var sourceNode osm.NodeID
		for i, wn := range way.nodes {
			pt, ok := nodeGeom[wn.ID]
			if !ok {
				// Extract boundary clipped the way; drop the collected run.
				geom = orb.LineString{}
				continue
			}
			if len(geom) == 0 {
				sourceNode = wn.ID
			}
			geom = append(geom, pt)
			last := i == len(way.nodes)-1
			if len(geom) >= 2 && (last || useCount[wn.ID] > 1) {
				maxspeedRev := way.maxspeed
				if way.oneway {
					maxspeedRev = 0
				}
				mid := geom[len(geom)/2]
				edges = append(edges, Edge{
					ID:              nextEdgeID,
					Source:          NodeID(sourceNode),
					Target:          NodeID(wn.ID),
					LengthM:         getSphericalLength(geom),
					LengthProjected: getProjectedLength(geom),
					Class:           way.class,
					MaxSpeedFwd:     way.maxspeed,
					MaxSpeedRev:     maxspeedRev,
					Geom:            geom,
					CellCoarse:      CellAt(mid, CellZoomCoarse),
					CellFine:        CellAt(mid, CellZoomFine),
				})
				nextEdgeID++
				geom = orb.LineString{pt}
				sourceNode = wn.ID
			}
		}
	}
	return edges
}
