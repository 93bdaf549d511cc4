// Package screens holds the per-section collections and row actions of the
// console. Screens never open modals or touch navigation themselves: they
// fetch, expose rows, and ask the shell for actions.
package screens

import (
	"context"
	"log"

	"smartwaste-dashboard/internal/api"
	"smartwaste-dashboard/internal/shell"
)

// Update applies a finished network call to screen state. It must run on
// the UI loop.
type Update func()

// Task performs network work off the UI loop.
type Task func(ctx context.Context) Update

// Table is a tab's rows in display form.
type Table struct {
	Columns []string
	Rows    [][]string
	// IDs holds the entity id of each row, for row actions.
	IDs []string
}

// Screen is one section's content.
type Screen interface {
	Section() shell.Section
	// Sync returns the fetches due for the active tab at the given refresh
	// epoch. Collections already fetched for the same key are skipped.
	Sync(tab shell.TabID, epoch uint64) []Task
	// Table renders the rows of tab together with the load state of the
	// collection behind it.
	Table(tab shell.TabID) (t Table, loading bool, err string)
}

type fetchKey struct {
	tab   shell.TabID
	epoch uint64
	visit uint64
}

// activation counts tab activations so that returning to a tab refetches
// its collections even when the epoch has not moved.
type activation struct {
	tab   shell.TabID
	visit uint64
}

func (a *activation) key(tab shell.TabID, epoch uint64) fetchKey {
	if a.visit == 0 || tab != a.tab {
		a.tab = tab
		a.visit++
	}
	return fetchKey{tab: tab, epoch: epoch, visit: a.visit}
}

// Collection is one remote list and its load state.
type Collection[T any] struct {
	Loading bool
	Err     string
	Items   []T

	// Unauthorized is set when the last fetch was rejected with 401.
	Unauthorized bool

	key     fetchKey
	fetched bool
}

// due marks the collection as loading for key, reporting false when key was
// already requested.
func (c *Collection[T]) due(key fetchKey) bool {
	if c.fetched && c.key == key {
		return false
	}
	c.key = key
	c.fetched = true
	c.Loading = true
	return true
}

// set applies a result. Results are applied in arrival order, so a slow
// older response can overwrite a newer one.
func (c *Collection[T]) set(items []T, err error, fallback string) {
	c.Loading = false
	c.Unauthorized = api.IsUnauthorized(err)
	if err != nil {
		c.Err = api.Message(err, fallback)
		log.Printf("❌ [SCREENS] %s: %v", fallback, err)
		return
	}
	c.Err = ""
	if items == nil {
		items = []T{}
	}
	c.Items = items
}

// fetch builds the task loading c for key, or nil when it is not due.
func fetch[T any](c *Collection[T], key fetchKey, load func(context.Context) ([]T, error), fallback string) Task {
	if !c.due(key) {
		return nil
	}
	return func(ctx context.Context) Update {
		items, err := load(ctx)
		return func() { c.set(items, err, fallback) }
	}
}

func appendTask(tasks []Task, t Task) []Task {
	if t == nil {
		return tasks
	}
	return append(tasks, t)
}

// refreshOnly keys a collection on the refresh epoch alone.
func refreshOnly(epoch uint64) fetchKey {
	return fetchKey{epoch: epoch}
}

// mutate runs op and, on success, asks for a refresh. A failure is reported
// to onErr on the UI loop.
func mutate(d shell.Dispatcher, op func(context.Context) error, onErr func(string), fallback string) Task {
	return func(ctx context.Context) Update {
		err := op(ctx)
		return func() {
			if err != nil {
				log.Printf("❌ [SCREENS] %s: %v", fallback, err)
				onErr(api.Message(err, fallback))
				return
			}
			onErr("")
			d.RequestAction(shell.Refresh{})
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
