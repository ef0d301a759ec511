package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// ExportBackup writes an encrypted backup of the whole account to a file.
// The file can only be read back with the account password it was made under.
func (a *App) ExportBackup(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	path, err := getSimpleText(a.reader, "File to write (empty for journal-backup.txt)", os.Stdout)
	if err != nil {
		return err
	}
	if path == "" {
		path = "journal-backup.txt"
	}

	backup, err := a.backup.Generate(ctx, a.auth, nowFn())
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	encrypted, err := a.backup.AsEncryptedString(backup, a.auth.Key)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := os.WriteFile(path, []byte(encrypted), 0o600); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Backup written to", path)
	return nil
}

// ImportBackup replaces the account's data with the contents of an encrypted
// backup file. The backup must have been made under the current password.
func (a *App) ImportBackup(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	path, err := getSimpleText(a.reader, "Backup file to import", os.Stdout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	answer, err := getSimpleText(a.reader, "This replaces ALL current data. Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	if err := a.backup.Import(ctx, a.auth, string(data)); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Backup imported.")
	return nil
}
