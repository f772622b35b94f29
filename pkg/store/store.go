// Package store keeps a history of computed production plans.
//
// Two backends implement [Store]: [FileStore] writes one JSON file per plan
// under the user's config directory, and [MongoStore] keeps plans in a
// MongoDB collection so several machines can share one history.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/craftplan/pkg/errors"
	"github.com/matzehuels/craftplan/pkg/planner"
)

// Record is one saved plan together with the request that produced it.
type Record struct {
	ID            string                  `json:"id"`
	CreatedAt     time.Time               `json:"created_at"`
	Target        string                  `json:"target"`
	Policy        string                  `json:"policy"`
	BaseMaterials []string                `json:"base_materials,omitempty"`
	Plan          *planner.ProductionPlan `json:"plan"`
}

// NewRecord wraps p in a record with a fresh id. The plan's ID is set to
// the record id.
func NewRecord(p *planner.ProductionPlan, baseMaterials []string) *Record {
	id := uuid.NewString()
	p.ID = id
	return &Record{
		ID:            id,
		CreatedAt:     time.Now().UTC(),
		Target:        p.Target.ID,
		Policy:        p.Policy,
		BaseMaterials: baseMaterials,
		Plan:          p,
	}
}

// Store is the interface for plan history backends.
type Store interface {
	// Save stores r, replacing any record with the same id.
	Save(ctx context.Context, r *Record) error

	// Get returns the record with id, or a PLAN_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes the record with id, or returns a PLAN_NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	Close() error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodePlanNotFound, "no saved plan with id %s", id)
}

// restore fills the display fields a decoded plan may lack.
func restore(r *Record) *Record {
	if r.Plan != nil {
		planner.Present(r.Plan)
	}
	return r
}
