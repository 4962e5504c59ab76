package ledger

import (
	"fmt"
	"time"

	"github.com/ashvale/go-craft-market/internal/currency"
	"github.com/ashvale/go-craft-market/models"
)

const deadlineLayout = "2006-01-02"

// validateJobSpec checks the client-side invariants of a job submission
// before it ever reaches the wire: required fields present, the deadline
// parseable, and the price inside denomination range.
func validateJobSpec(spec models.JobSpec) error {
	required := map[string]string{
		"in_game_name":    spec.CrafterName,
		"server":          spec.Server,
		"node":            spec.Node,
		"items_requested": spec.ItemsRequested,
		"item_category":   string(spec.Category),
		"deadline":        spec.Deadline,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	if err := validateDeadline(spec.Deadline); err != nil {
		return err
	}

	if _, err := currency.ToUnits(spec.Money); err != nil {
		return fmt.Errorf("job price: %w", err)
	}
	return nil
}

// validateDeadline accepts today and any later date.
func validateDeadline(deadline string) error {
	parsed, err := time.Parse(deadlineLayout, deadline)
	if err != nil {
		return fmt.Errorf("deadline must be %s: %w", deadlineLayout, err)
	}

	today, _ := time.Parse(deadlineLayout, time.Now().Format(deadlineLayout))
	if parsed.Before(today) {
		return fmt.Errorf("%w: %s", ErrPastDeadline, deadline)
	}
	return nil
}

func validateJobPatch(patch models.JobPatch) error {
	if patch.Deadline != nil {
		if err := validateDeadline(*patch.Deadline); err != nil {
			return err
		}
	}
	if patch.Money != nil {
		if _, err := currency.ToUnits(*patch.Money); err != nil {
			return fmt.Errorf("job price: %w", err)
		}
	}
	return nil
}

func validateBidSpec(spec models.BidSpec) error {
	required := map[string]string{
		"in_game_name":              spec.CrafterName,
		"estimated_completion_time": spec.EstimatedCompletion,
		"certification_level":       string(spec.Certification),
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	if _, err := currency.ToUnits(spec.Money); err != nil {
		return fmt.Errorf("bid price: %w", err)
	}
	return nil
}
