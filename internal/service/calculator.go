package service

import (
	"context"
	"errors"
	"time"

	"github.com/zmanview/zmanview-api/internal/models"
)

// ErrNoCalculator is returned by UnconfiguredCalculator.
var ErrNoCalculator = errors.New("zmanim calculator not configured")

// UnconfiguredCalculator is wired when no astronomical provider is available.
// Refresh jobs fail and leave existing table rows untouched.
type UnconfiguredCalculator struct{}

// Compute always fails.
func (UnconfiguredCalculator) Compute(_ context.Context, _ *models.Shul, _ time.Time) (*models.ZmanimDay, error) {
	return nil, ErrNoCalculator
}
