package usecase

import (
	"errors"
	"fmt"
	"time"

	"go.ngs.io/vsop87/internal/adapter/store"
	"go.ngs.io/vsop87/internal/domain"
)

// ErrInvalidRequest marks requests rejected before any model is loaded.
var ErrInvalidRequest = errors.New("invalid request")

// MaxPoints caps the number of samples a single request may produce.
const MaxPoints = 10000

// PositionRequest encapsulates a position time-series request
type PositionRequest struct {
	Body    domain.Body
	Version domain.Version

	// Time range, inclusive at both ends
	Start time.Time
	End   time.Time

	// Interval between samples (e.g., 1 day)
	Interval time.Duration

	// Velocity requests velocities as well; heliocentric spherical J2000 only
	Velocity bool
}

// PositionResponse contains the evaluated positions
type PositionResponse struct {
	Body      domain.Body     `json:"body"`
	Version   domain.Version  `json:"version"`
	Frame     string          `json:"frame"`
	Units     Units           `json:"units"`
	TermCount int             `json:"term_count"`
	Points    []PositionPoint `json:"points"`
}

// Units documents the units of each field in a PositionPoint
type Units struct {
	TT       string `json:"tt"`
	Position string `json:"position"`
	Velocity string `json:"velocity,omitempty"`
}

// PositionPoint is the state of the body at one instant
type PositionPoint struct {
	Time     string      `json:"time"`
	TT       float64     `json:"tt"`
	Position [3]float64  `json:"position"`
	Velocity *[3]float64 `json:"velocity,omitempty"`
}

// PositionUseCase evaluates models fetched from a ModelSource
type PositionUseCase struct {
	source store.ModelSource
}

// NewPositionUseCase creates a new position use case
func NewPositionUseCase(source store.ModelSource) *PositionUseCase {
	return &PositionUseCase{source: source}
}

// Validate checks if the request is valid
func (r *PositionRequest) Validate() error {
	if !r.Body.Valid() {
		return fmt.Errorf("body must be provided")
	}
	if !r.Version.Valid() {
		return fmt.Errorf("version must be provided")
	}

	// Validate time range
	if !r.Start.Before(r.End) {
		return fmt.Errorf("start time must be before end time")
	}

	// Validate interval
	if r.Interval < time.Minute {
		return fmt.Errorf("interval must be at least 1 minute")
	}

	// Check that number of points is reasonable
	numPoints := int(r.End.Sub(r.Start)/r.Interval) + 1
	if numPoints > MaxPoints {
		return fmt.Errorf("too many points (%d) - reduce time range or increase interval", numPoints)
	}

	return nil
}

// Execute evaluates the requested model at every step of the time range
func (uc *PositionUseCase) Execute(req PositionRequest) (*PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	model, err := uc.source.LoadModel(req.Body, req.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to load model for %s (%s): %w", req.Body, req.Version, err)
	}

	response := &PositionResponse{
		Body:      model.Body,
		Version:   model.Version,
		Frame:     "equatorial_j2000",
		Units:     Units{TT: "days since J2000.0", Position: "au"},
		TermCount: model.TermCount(),
	}
	if req.Velocity {
		response.Units.Velocity = "au/day"
	}

	for t := req.Start; !t.After(req.End); t = t.Add(req.Interval) {
		tt := domain.DaysSinceJ2000(t)
		point := PositionPoint{
			Time: t.UTC().Format(time.RFC3339),
			TT:   tt,
		}

		if req.Velocity {
			pos, vel, err := domain.CalcPositionVelocity(model, tt)
			if err != nil {
				return nil, err
			}
			point.Position = [3]float64{pos.X, pos.Y, pos.Z}
			point.Velocity = &[3]float64{vel.X, vel.Y, vel.Z}
		} else {
			pos, err := domain.CalcPosition(model, tt)
			if err != nil {
				return nil, err
			}
			point.Position = [3]float64{pos.X, pos.Y, pos.Z}
		}

		response.Points = append(response.Points, point)
	}

	return response, nil
}

// ListModels returns the models the source can serve
func (uc *PositionUseCase) ListModels() ([]store.ModelInfo, error) {
	return uc.source.ListModels()
}
