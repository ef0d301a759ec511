package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"
)

const eventDateFormat = "2006-01-02"

// ListEvents prints the user's events in start order.
func (a *App) ListEvents(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	labelsByID, err := a.labels.MapByID(ctx, a.auth)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	events, err := a.events.All(ctx, a.auth, labelsByID)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	for _, e := range events {
		start := time.Unix(e.Start, 0).UTC().Format(eventDateFormat)
		end := time.Unix(e.End, 0).UTC().Format(eventDateFormat)
		label := ""
		if e.Label != nil {
			label = " #" + e.Label.Name
		}
		fmt.Printf("%s  %s .. %s  %s%s\n", e.ID, start, end, e.Name, label)
	}
	return nil
}

// AddEvent creates an event spanning a start and end date.
func (a *App) AddEvent(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter event name", os.Stdout)
	if err != nil {
		return err
	}
	startText, err := getSimpleText(a.reader, "Start date (YYYY-MM-DD)", os.Stdout)
	if err != nil {
		return err
	}
	start, err := time.Parse(eventDateFormat, startText)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	endText, err := getSimpleText(a.reader, "End date (YYYY-MM-DD, empty for same day)", os.Stdout)
	if err != nil {
		return err
	}
	end := start
	if endText != "" {
		end, err = time.Parse(eventDateFormat, endText)
		if err != nil {
			log.Printf("error: %v", err)
			return err
		}
	}

	labelsByID, err := a.labels.MapByID(ctx, a.auth)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	event, err := a.events.Create(ctx, a.auth, labelsByID,
		name, start.Unix(), end.Unix(), tzOffsetFn(), nil, nowFn())
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Created event %s (%s)\n", event.Name, event.ID)
	return nil
}
