package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// ListLabels prints the user's labels.
func (a *App) ListLabels(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	labels, err := a.labels.All(ctx, a.auth)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	for _, l := range labels {
		fmt.Printf("%s  %s (%s)\n", l.ID, l.Name, l.Color)
	}
	return nil
}

// AddLabel creates a label with a name and a display color.
func (a *App) AddLabel(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter label name", os.Stdout)
	if err != nil {
		return err
	}
	color, err := getSimpleText(a.reader, "Enter label color (e.g. #80ccff)", os.Stdout)
	if err != nil {
		return err
	}

	label, err := a.labels.Create(ctx, a.auth, name, color, nowFn())
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Created label %s (%s)\n", label.Name, label.ID)
	return nil
}

// DeleteLabel removes a label; entries and events that carried it are
// detached, not deleted.
func (a *App) DeleteLabel(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter label id to delete", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.labels.Delete(ctx, a.auth, id); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Deleted.")
	return nil
}
