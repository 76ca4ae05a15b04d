package migration

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigration(t *testing.T, dir, name, sql string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadMigrations_SortsByVersionAndSkipsNonMatching(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "V2__add_matches.sql", "CREATE TABLE job_matches (id INT);")
	writeMigration(t, dir, "V1__init.sql", "CREATE TABLE jobs (id INT);")
	writeMigration(t, dir, "V10__indexes.sql", "CREATE INDEX idx ON jobs (id);")
	writeMigration(t, dir, "notes.txt", "not a migration")
	writeMigration(t, dir, "V3_missing_separator.sql", "SELECT 1;")

	migs, err := loadMigrations(dir)
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if len(migs) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migs))
	}
	for i, want := range []int64{1, 2, 10} {
		if migs[i].Version != want {
			t.Fatalf("position %d: version %d, want %d", i, migs[i].Version, want)
		}
	}
	if migs[0].Name != "init" {
		t.Fatalf("name = %q, want init", migs[0].Name)
	}
}

func TestLoadMigrations_DuplicateVersionFails(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "V1__a.sql", "SELECT 1;")
	writeMigration(t, dir, "V01__b.sql", "SELECT 2;")

	if _, err := loadMigrations(dir); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestLoadMigrations_EmptyFileFails(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "V1__empty.sql", "   \n\t")

	if _, err := loadMigrations(dir); err == nil {
		t.Fatal("expected empty migration error")
	}
}

func TestLoadMigrations_MissingDirIsNotAnError(t *testing.T) {
	migs, err := loadMigrations(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if migs != nil {
		t.Fatalf("expected nil migrations, got %v", migs)
	}
}

func TestLoadMigrations_ChecksumIsStableAcrossWhitespace(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeMigration(t, dirA, "V1__init.sql", "CREATE TABLE jobs (id INT);")
	writeMigration(t, dirB, "V1__init.sql", "\nCREATE TABLE jobs (id INT);\n\n")

	a, err := loadMigrations(dirA)
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	b, err := loadMigrations(dirB)
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if a[0].Checksum != b[0].Checksum {
		t.Fatalf("checksum changed with surrounding whitespace: %s vs %s", a[0].Checksum, b[0].Checksum)
	}
}
