package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/journalkeeper/internal/models"
	"github.com/dmitrijs2005/journalkeeper/internal/services"
	"github.com/dmitrijs2005/journalkeeper/internal/timex"
)

func (a *App) requireLogin() bool {
	if !a.isLoggedIn() {
		fmt.Println("Log in first.")
		return false
	}
	return true
}

func entryLine(e *models.Entry) string {
	day := timex.DayFromTimestamp(e.Created, e.CreatedTzOffset)
	marks := ""
	if e.IsPinned() {
		marks += " *"
	}
	if e.IsDeleted() {
		marks += " [deleted]"
	}
	label := ""
	if e.Label != nil {
		label = " #" + e.Label.Name
	}
	return fmt.Sprintf("%s  %s  %s%s%s (%d words)", e.ID, day, e.Title, label, marks, e.WordCount)
}

// AddEntry prompts for a title, body and optional label and creates an entry.
func (a *App) AddEntry(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	body, err := getMultiline(a.reader, "Enter entry text", os.Stdout)
	if err != nil {
		return err
	}

	labels, err := a.labels.All(ctx, a.auth)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	var labelID *string
	if len(labels) > 0 {
		name, err := getSimpleText(a.reader, "Label name (empty for none)", os.Stdout)
		if err != nil {
			return err
		}
		if name != "" {
			for i := range labels {
				if labels[i].Name == name {
					labelID = &labels[i].ID
					break
				}
			}
			if labelID == nil {
				fmt.Printf("No label named %q, saving without one.\n", name)
			}
		}
	}

	args := &services.CreateEntryArgs{
		Title:           title,
		Body:            body,
		Created:         nowFn(),
		CreatedTzOffset: tzOffsetFn(),
		LabelID:         labelID,
	}
	entry, err := a.entries.Create(ctx, a.auth, labels, args)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("Saved:", entryLine(entry))
	return nil
}

// List prints every entry, newest first.
func (a *App) List(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	labelsByID, err := a.labels.MapByID(ctx, a.auth)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	entries, err := a.entries.All(ctx, a.auth, labelsByID)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	for i := range entries {
		fmt.Println(entryLine(&entries[i]))
	}
	return nil
}

// Show prints one entry in full, edit history included.
func (a *App) Show(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter entry id", os.Stdout)
	if err != nil {
		return err
	}

	entry, err := a.getEntry(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println(entryLine(entry))
	fmt.Println(entry.Body)
	if len(entry.Edits) > 0 {
		fmt.Printf("(%d earlier versions)\n", len(entry.Edits))
	}
	return nil
}

func (a *App) getEntry(ctx context.Context, id string) (*models.Entry, error) {
	labelsByID, err := a.labels.MapByID(ctx, a.auth)
	if err != nil {
		return nil, err
	}
	return a.entries.GetByID(ctx, a.auth, labelsByID, id)
}

// Search runs a full-text query over the encrypted word index and prints
// matching entries, best match first.
func (a *App) Search(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	query, err := getSimpleText(a.reader, "Search for", os.Stdout)
	if err != nil {
		return err
	}

	results, err := a.wordIndex.Search(ctx, a.auth, query)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	labelsByID, err := a.labels.MapByID(ctx, a.auth)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	for _, r := range results {
		entry, err := a.entries.GetByID(ctx, a.auth, labelsByID, r.EntryID)
		if err != nil {
			log.Printf("error: %v", err)
			return err
		}
		fmt.Println(entryLine(entry))
	}
	return nil
}

// EditEntry replaces an entry's title and body, snapshotting the previous
// version into its edit history. Empty input keeps the current value.
func (a *App) EditEntry(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter entry id", os.Stdout)
	if err != nil {
		return err
	}
	entry, err := a.getEntry(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if entry.IsDeleted() {
		fmt.Println("Entry is deleted; restore it first.")
		return nil
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("New title (empty keeps %q)", entry.Title), os.Stdout)
	if err != nil {
		return err
	}
	if title == "" {
		title = entry.Title
	}
	body, err := getMultiline(a.reader, "New entry text (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if strings.TrimSpace(body) == "" {
		body = entry.Body
	}

	var labelID *string
	if entry.Label != nil {
		labelID = &entry.Label.ID
	}

	if err := a.entries.Edit(ctx, a.auth, entry, title, body,
		entry.Latitude, entry.Longitude, labelID, tzOffsetFn(), "", nowFn()); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("Saved.")
	return nil
}

// DeleteEntry soft-deletes an entry. It disappears from search but its data
// is kept until the account is purged.
func (a *App) DeleteEntry(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter entry id to delete", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.entries.Delete(ctx, a.auth, id, false, nowFn()); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Deleted.")
	return nil
}

// RestoreEntry brings a soft-deleted entry back. Its label and pinned state
// are not restored.
func (a *App) RestoreEntry(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter entry id to restore", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.entries.Delete(ctx, a.auth, id, true, nowFn()); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Restored.")
	return nil
}

// TogglePin flips an entry's pinned state.
func (a *App) TogglePin(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter entry id", os.Stdout)
	if err != nil {
		return err
	}
	entry, err := a.getEntry(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	entry, err = a.entries.SetPinned(ctx, a.auth, entry, !entry.IsPinned(), nowFn())
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if entry.IsPinned() {
		fmt.Println("Pinned.")
	} else {
		fmt.Println("Unpinned.")
	}
	return nil
}

// Streaks prints the user's writing streaks for the local timezone.
func (a *App) Streaks(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	streaks, err := a.entries.GetStreaks(ctx, a.auth, tzOffsetFn(), nowFn())
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Current streak: %d day(s)\n", streaks.Current)
	fmt.Printf("Longest streak: %d day(s)\n", streaks.Longest)
	if streaks.RunningOut {
		fmt.Println("No entry yet today, write one to keep the streak going!")
	}
	return nil
}
