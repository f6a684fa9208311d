package catchment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// ResultType selects the output shape of a catchment area request
type ResultType uint8

const (
	RESULT_POLYGON = ResultType(iota + 1)
	RESULT_NETWORK
	RESULT_GRID
)

func (iotaIdx ResultType) String() string {
	return [...]string{"polygon", "network", "grid"}[iotaIdx-1]
}

// Request is the validated descriptor the catchment core is invoked with
type Request struct {
	Origins           []orb.Point
	Mode              Mode
	Budget            CostBudget
	ResultType        ResultType
	ScenarioID        string
	PolygonDifference bool
	Steps             int  // 0 picks the configured default
	Percentile        *int // nil picks the configured default; 0 is the legitimate minimum
}

// Validate checks the descriptor and fills parameter defaults in place
func (r *Request) Validate(cfg *Config) error {
	if len(r.Origins) == 0 {
		return errors.New("request needs at least one origin point")
	}
	if r.Mode < MODE_PEDESTRIAN || r.Mode > MODE_CAR {
		return errors.New("request needs a valid mode")
	}
	if r.Budget.Kind != BUDGET_TIME && r.Budget.Kind != BUDGET_DISTANCE {
		return errors.New("request needs exactly one budget kind")
	}
	if r.Budget.Value <= 0 {
		return errors.New("cost budget must be positive")
	}
	if r.ResultType < RESULT_POLYGON || r.ResultType > RESULT_GRID {
		return errors.New("request needs a valid result type")
	}
	if r.Steps < 0 {
		return errors.New("steps must not be negative")
	}
	if r.Steps == 0 {
		r.Steps = cfg.DefaultSteps
	}
	if r.Percentile == nil {
		p := cfg.DefaultPercentile
		r.Percentile = &p
	} else if *r.Percentile < 0 || *r.Percentile > 100 {
		return errors.New("percentile must be within [0, 100]")
	}
	return nil
}

// ResultPersistence is the collaborator receiving the final artifact; it owns
// storage format and schema
type ResultPersistence interface {
	PersistPolygons(jobID string, polygons *geojson.FeatureCollection) error
	PersistNetwork(jobID string, features *geojson.FeatureCollection) error
	PersistGrid(jobID string, cells []GridCell) error
}

// Job tracks one pipeline execution. Status is mutated only by the pipeline
// and is terminal once set to anything besides in_progress.
type Job struct {
	ID     string
	Status JobStatus
	Err    error
}

// Pipeline sequences assembly, cost annotation, search, contouring and
// persistence for catchment area jobs. Failed stages are not retried: a
// retry, if desired, is a fresh job with a fresh id. A started job runs to a
// terminal state; there is no mid-flight cancellation.
type Pipeline struct {
	assembler *Assembler
	status    JobStatusStore
	persist   ResultPersistence
	cfg       *Config
	log       *slog.Logger
}

// NewPipeline wires the catchment pipeline over its collaborators
func NewPipeline(store *NetworkStore, db NetworkDatabase, status JobStatusStore, persist ResultPersistence, cfg *Config, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		assembler: NewAssembler(store, db, cfg, log),
		status:    status,
		persist:   persist,
		cfg:       cfg,
		log:       log,
	}
}

// Run executes one catchment area job to its terminal status. The returned
// job carries the terminal status and, for failed jobs, the causing error;
// the same status is written to the job status store exactly once.
func (p *Pipeline) Run(ctx context.Context, req Request) *Job {
	job := &Job{ID: uuid.NewString(), Status: STATUS_IN_PROGRESS}
	if err := req.Validate(p.cfg); err != nil {
		return p.finish(job, err)
	}
	if err := p.status.SetStatus(job.ID, STATUS_IN_PROGRESS); err != nil {
		return p.finish(job, err)
	}
	log := p.log.With("job", job.ID, "mode", req.Mode.String(), "result_type", req.ResultType.String())
	totalStart := time.Now()

	// Assembling: sub-network extraction and cost annotation.
	st := time.Now()
	sn, err := p.assembler.Assemble(ctx, req.Origins, req.Mode, req.Budget, req.ScenarioID)
	if err != nil {
		return p.finish(job, err)
	}
	params := p.cfg.ParamsFor(req.Mode)
	sn.ApplyCosts(req.Mode, params, req.Budget.Kind)
	log.Info("sub-network ready", "edges", sn.ActiveCount(), "elapsed", time.Since(st))

	// Searching: budget-bounded multi-source shortest path.
	st = time.Now()
	result := ComputeReachability(sn, req.Mode, req.Budget)
	log.Info("reachability computed", "nodes", len(result.NodeCost), "edges", len(result.Edges), "elapsed", time.Since(st))

	var grid map[CellID]float64
	if req.ResultType == RESULT_POLYGON || req.ResultType == RESULT_GRID {
		grid = EvaluateGrid(result.NodeCost, sn.NodePoints(), params.GridZoom)
	}

	// Contouring: polygon results only.
	var iso Isochrone
	if req.ResultType == RESULT_POLYGON {
		st = time.Now()
		iso = GenerateIsolines(grid, params.GridZoom, req.Budget, req.Steps, *req.Percentile, req.PolygonDifference)
		log.Info("isolines generated", "bands", len(iso), "elapsed", time.Since(st))
	}

	// Persisting: hand the artifact to the persistence collaborator. Fatal
	// conditions above abort before anything is persisted, so a failed job
	// never leaves a partial result behind.
	st = time.Now()
	switch req.ResultType {
	case RESULT_POLYGON:
		err = p.persist.PersistPolygons(job.ID, PolygonFeatures(iso))
	case RESULT_NETWORK:
		err = p.persist.PersistNetwork(job.ID, NetworkFeatures(result))
	case RESULT_GRID:
		err = p.persist.PersistGrid(job.ID, GridCells(grid))
	}
	if err != nil {
		return p.finish(job, errors.Wrap(err, "Can't persist result"))
	}
	log.Info("result persisted", "elapsed", time.Since(st), "total", time.Since(totalStart))
	return p.finish(job, nil)
}

// finish writes the single terminal status of the job
func (p *Pipeline) finish(job *Job, err error) *Job {
	switch {
	case err == nil:
		job.Status = STATUS_SUCCESS
	case errors.Cause(err) == ErrDisconnectedOrigin:
		job.Status = STATUS_DISCONNECTED_ORIGIN
		job.Err = err
	default:
		job.Status = STATUS_FAILURE
		job.Err = err
	}
	if err != nil {
		p.log.Error("job failed", "job", job.ID, "status", job.Status.String(), "error", err)
	}
	if serr := p.status.SetStatus(job.ID, job.Status); serr != nil {
		p.log.Error("can't write terminal job status", "job", job.ID, "error", serr)
	}
	return job
}
