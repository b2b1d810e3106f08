package db

import (
	"database/sql"
	"fmt"

	"favorite-feed/internal/domain/entity"
)

// schema creates the tables. Every statement is idempotent.
var schema = []string{
	`
CREATE TABLE IF NOT EXISTS users (
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    email      TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`
CREATE TABLE IF NOT EXISTS posts (
    id         BIGSERIAL PRIMARY KEY,
    author_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title      VARCHAR(255) NOT NULL,
    body       TEXT NOT NULL,
    image_path TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`
CREATE TABLE IF NOT EXISTS favorites (
    id          BIGSERIAL PRIMARY KEY,
    actor_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    target_kind TEXT,
    target_id   BIGINT,
    post_id     BIGINT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
}

// polymorphic upgrades favorites tables created before (target_kind, target_id)
// existed. Rows that only carry post_id are backfilled as post favorites.
var polymorphic = []string{
	`ALTER TABLE favorites ADD COLUMN IF NOT EXISTS target_kind TEXT`,
	`ALTER TABLE favorites ADD COLUMN IF NOT EXISTS target_id BIGINT`,
	`
UPDATE favorites
   SET target_kind = 'post',
       target_id   = post_id
 WHERE target_kind IS NULL
   AND post_id IS NOT NULL`,
	`ALTER TABLE favorites ALTER COLUMN target_kind SET NOT NULL`,
	`ALTER TABLE favorites ALTER COLUMN target_id SET NOT NULL`,
}

type constraint struct {
	name string
	def  string
}

// constraints are added through DO blocks since Postgres has no
// ADD CONSTRAINT IF NOT EXISTS.
var constraints = []constraint{
	{"chk_favorites_target_kind", `CHECK (target_kind IN ('post', 'user'))`},
	{"uq_favorites_actor_target", `UNIQUE (actor_id, target_kind, target_id)`},
	{"chk_favorites_no_self", `CHECK (target_kind <> 'user' OR target_id <> actor_id)`},
}

// mirrorConstraint follows entity.LegacyMirrorVersion. While post_id is
// written it must be set exactly for post favorites; after writes stop it
// may only be NULL or a stale copy of target_id.
func mirrorConstraint() (name, def string) {
	if entity.LegacyMirrorVersion == 0 {
		return "chk_favorites_legacy_mirror_v0", `CHECK (
        post_id IS NULL OR (target_kind = 'post' AND post_id = target_id))`
	}
	return "chk_favorites_legacy_mirror_v1", `CHECK (
        (target_kind = 'post' AND post_id IS NOT NULL AND post_id = target_id)
        OR (target_kind <> 'post' AND post_id IS NULL))`
}

// staleMirrorConstraints are dropped before mirrorConstraint is added,
// including the unversioned check from earlier releases.
func staleMirrorConstraints() []string {
	current, _ := mirrorConstraint()
	var stale []string
	for _, name := range []string{
		"chk_favorites_legacy_mirror",
		"chk_favorites_legacy_mirror_v0",
		"chk_favorites_legacy_mirror_v1",
	} {
		if name != current {
			stale = append(stale, name)
		}
	}
	return stale
}

// mirrorBackfill fills post_id for post favorites written while the mirror
// was off.
const mirrorBackfill = `
UPDATE favorites
   SET post_id = target_id
 WHERE target_kind = 'post'
   AND post_id IS NULL`

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_author_id ON posts(author_id)`,
	// follower lookups and post cascade deletes go by target
	`CREATE INDEX IF NOT EXISTS idx_favorites_target ON favorites(target_kind, target_id)`,
}

// MigrateUp bootstraps the schema and backfills legacy favorites.
func MigrateUp(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	for _, stmt := range polymorphic {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("polymorphic favorites: %w", err)
		}
	}

	if entity.LegacyMirrorVersion > 0 {
		if _, err := db.Exec(mirrorBackfill); err != nil {
			return fmt.Errorf("legacy mirror backfill: %w", err)
		}
	}
	for _, name := range staleMirrorConstraints() {
		if _, err := db.Exec(`ALTER TABLE favorites DROP CONSTRAINT IF EXISTS ` + name); err != nil {
			return fmt.Errorf("drop constraint %s: %w", name, err)
		}
	}

	mirrorName, mirrorDef := mirrorConstraint()
	all := append(append([]constraint{}, constraints...), constraint{mirrorName, mirrorDef})
	for _, c := range all {
		if _, err := db.Exec(addConstraint("favorites", c.name, c.def)); err != nil {
			return fmt.Errorf("constraint %s: %w", c.name, err)
		}
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown drops every table created by MigrateUp.
// Use with caution: this deletes all data.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS favorites CASCADE`,
		`DROP TABLE IF EXISTS posts CASCADE`,
		`DROP TABLE IF EXISTS users CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func addConstraint(table, name, def string) string {
	return fmt.Sprintf(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = '%s'
    ) THEN
        ALTER TABLE %s ADD CONSTRAINT %s %s;
    END IF;
END $$;
`, name, table, name, def)
}
