package store

import (
	"context"
	"fmt"

	"github.com/amishk599/offermatch/internal/model"
)

// Seed upserts every descriptor into st and returns how many were written.
// It stops at the first failure.
func Seed(ctx context.Context, st model.SkillStore, descriptors []model.SkillDescriptor) (int, error) {
	n := 0
	for _, d := range descriptors {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if _, err := st.Upsert(ctx, d); err != nil {
			return n, fmt.Errorf("seeding skill %s: %w", d.Slug, err)
		}
		n++
	}
	return n, nil
}
