// Package wizard drives the multi-step onboarding flow. Each step owns a
// slice of the form keyed by its index; moving forward validates the
// current step's required fields, moving back keeps whatever was entered.
package wizard

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/civicreach/audience-manager/pkg/client"
)

// Field is one input of a wizard step.
type Field struct {
	Name     string
	Label    string
	Required bool
}

// Step is one page of the wizard.
type Step struct {
	Title  string
	Fields []Field
}

// Steps returns the onboarding flow's pages in order.
func Steps() []Step {
	return []Step{
		{
			Title: "Company profile",
			Fields: []Field{
				{Name: "companyName", Label: "Company name", Required: true},
				{Name: "industry", Label: "Industry"},
				{Name: "size", Label: "Company size"},
			},
		},
		{
			Title: "Personas",
			Fields: []Field{
				{Name: "personas", Label: "Personas to start with"},
			},
		},
		{
			Title: "Authority levels",
			Fields: []Field{
				{Name: "authorityLevels", Label: "Authority levels to start with"},
			},
		},
		{
			Title: "Invite users",
			Fields: []Field{
				{Name: "invites", Label: "Email addresses"},
			},
		},
	}
}

// Wizard tracks progress through the steps and accumulates the form.
type Wizard struct {
	mu    sync.Mutex
	api   *client.Client
	steps []Step
	index int
	form  map[int]map[string]any
	done  bool
}

// New creates a wizard at the first step.
func New(api *client.Client) *Wizard {
	return &Wizard{
		api:   api,
		steps: Steps(),
		form:  map[int]map[string]any{},
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps[w.index]
}

// Index returns the current step's position.
func (w *Wizard) Index() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.index
}

// Done reports whether Complete has succeeded.
func (w *Wizard) Done() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

// SetField records a value on the current step.
func (w *Wizard) SetField(name string, value any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	values := w.form[w.index]
	if values == nil {
		values = map[string]any{}
		w.form[w.index] = values
	}
	values[name] = value
}

// Value returns a recorded value from any step.
func (w *Wizard) Value(step int, name string) (any, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	values, ok := w.form[step]
	if !ok {
		return nil, false
	}
	v, ok := values[name]
	return v, ok
}

// Next validates the current step and advances. The last step has no
// next; use Complete there.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.validate(); err != nil {
		return err
	}
	if w.index >= len(w.steps)-1 {
		return fmt.Errorf("already at the last step")
	}
	w.index++
	return nil
}

// Back returns to the previous step without validating; partial input on
// the current step is kept.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.index == 0 {
		return fmt.Errorf("already at the first step")
	}
	w.index--
	return nil
}

// Complete validates the final step and submits the accumulated form.
func (w *Wizard) Complete(ctx context.Context) error {
	w.mu.Lock()
	if w.index != len(w.steps)-1 {
		w.mu.Unlock()
		return fmt.Errorf("complete is only available on the last step")
	}
	if err := w.validate(); err != nil {
		w.mu.Unlock()
		return err
	}
	form := domain.OnboardingForm{}
	for step, values := range w.form {
		form[strconv.Itoa(step)] = values
	}
	w.mu.Unlock()

	if err := w.api.SubmitOnboarding(ctx, form); err != nil {
		return err
	}

	w.mu.Lock()
	w.done = true
	w.mu.Unlock()
	return nil
}

// validate checks the current step's required fields. Caller holds the
// lock.
func (w *Wizard) validate() error {
	values := w.form[w.index]
	for _, f := range w.steps[w.index].Fields {
		if !f.Required {
			continue
		}
		v, ok := values[f.Name]
		if !ok || v == nil || v == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, f.Label)
		}
	}
	return nil
}
