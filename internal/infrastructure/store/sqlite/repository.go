// Package sqlite provides the SQLite implementation of the Store and Roster
// interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/becked/prospector-sub006/internal/domain/entities"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Config holds the repository's settings.
type Config struct {
	Path string
}

// Repository implements ports.Store and ports.Roster on SQLite.
type Repository struct {
	db     *sql.DB
	path   string
	logger zerolog.Logger
}

// NewRepository opens (creating if needed) the database at cfg.Path, applies
// pragmas and runs the embedded migrations.
func NewRepository(cfg Config, logger zerolog.Logger) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// SQLite has a single writer; one pooled connection keeps :memory:
	// databases coherent and serializes bulk writes.
	db.SetMaxOpenConns(1)

	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "ON"},
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value)); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting PRAGMA %s: %w", pragma.name, err)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Debug().Str("path", cfg.Path).Msg("database opened")

	return &Repository{db: db, path: cfg.Path, logger: logger}, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("applying goose migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// MatchExists reports whether the dedup key is already imported.
func (r *Repository) MatchExists(ctx context.Context, fileName, contentHash string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE file_name = ? AND content_hash = ?`,
		fileName, contentHash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking dedup key: %w", err)
	}
	return count > 0, nil
}

// ImportMatch writes a whole bundle inside one transaction. With force set,
// a previous import of the same file is deleted first (cascading to its
// derived rows) inside the same transaction, so a failed re-import leaves
// the old rows in place.
func (r *Repository) ImportMatch(ctx context.Context, bundle *entities.MatchBundle, force bool) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if force {
		if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE file_name = ?`, bundle.Match.FileName); err != nil {
			return 0, fmt.Errorf("deleting previous import: %w", err)
		}
	}

	matchID, err := insertMatch(ctx, tx, bundle.Match)
	if err != nil {
		return 0, wrapIntegrity("inserting match", err)
	}

	if err := insertPlayers(ctx, tx, matchID, bundle.Players); err != nil {
		return 0, wrapIntegrity("inserting players", err)
	}
	if err := insertFacts(ctx, tx, matchID, bundle.Facts); err != nil {
		return 0, wrapIntegrity("inserting turn facts", err)
	}
	if err := insertEvents(ctx, tx, matchID, bundle.Events); err != nil {
		return 0, wrapIntegrity("inserting events", err)
	}
	if err := insertRulers(ctx, tx, matchID, bundle.Rulers); err != nil {
		return 0, wrapIntegrity("inserting rulers", err)
	}
	if err := insertCities(ctx, tx, matchID, bundle.Cities, bundle.CityProjects); err != nil {
		return 0, wrapIntegrity("inserting cities", err)
	}
	if err := insertTiles(ctx, tx, matchID, bundle.Tiles); err != nil {
		return 0, wrapIntegrity("inserting territory", err)
	}
	if err := insertFlags(ctx, tx, matchID, bundle.Flags); err != nil {
		return 0, wrapIntegrity("inserting quality flags", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return matchID, nil
}

// wrapIntegrity classifies constraint failures so the orchestrator can log
// them as integrity violations rather than generic write errors.
func wrapIntegrity(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "constraint") || strings.Contains(msg, "unique") || strings.Contains(msg, "foreign key") {
		return &entities.IntegrityError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func marshalList(values []string) (string, error) {
	if len(values) == 0 {
		return "", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalList(s string) []string {
	if s == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil
	}
	return values
}

func insertMatch(ctx context.Context, tx *sql.Tx, m *entities.Match) (int64, error) {
	victories, err := marshalList(m.VictoryTypes)
	if err != nil {
		return 0, err
	}
	options, err := marshalList(m.GameOptions)
	if err != nil {
		return 0, err
	}
	content, err := marshalList(m.ContentFlags)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO matches (
			file_name, content_hash, external_match_id, game_name, map_size,
			map_width, map_height, turn_style, victory_types, game_options,
			content_flags, total_turns, winner_player_num, imported_at
		) VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.FileName, m.ContentHash, m.ExternalMatchID, m.GameName, m.MapSize,
		m.MapWidth, m.MapHeight, m.TurnStyle, victories, options,
		content, m.TotalTurns, m.WinnerPlayerNum, m.ImportedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertPlayers(ctx context.Context, tx *sql.Tx, matchID int64, players []entities.Player) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (match_id, player_num, name, normalized_name, nation, score, is_human, link_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		status := p.LinkStatus
		if status == "" {
			status = entities.LinkUnlinked
		}
		if _, err := stmt.ExecContext(ctx, matchID, p.PlayerNum, p.Name, p.NormalizedName, p.Nation, p.Score, p.IsHuman, status); err != nil {
			return err
		}
	}
	return nil
}

func insertFacts(ctx context.Context, tx *sql.Tx, matchID int64, facts []entities.TurnFact) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO turn_facts (match_id, player_num, kind, subcategory, turn, value)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range facts {
		if _, err := stmt.ExecContext(ctx, matchID, f.PlayerNum, f.Kind, f.Subcategory, f.Turn, f.Value); err != nil {
			return err
		}
	}
	return nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, matchID int64, events []entities.Event) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (match_id, namespace, type, turn, player_num, x, y, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''))`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		payload, err := entities.MarshalPayload(e.Payload)
		if err != nil {
			return fmt.Errorf("marshaling %s payload: %w", e.Type, err)
		}
		if _, err := stmt.ExecContext(ctx, matchID, e.Namespace, e.Type, e.Turn, e.PlayerNum, e.X, e.Y, payload); err != nil {
			return err
		}
	}
	return nil
}

func insertRulers(ctx context.Context, tx *sql.Tx, matchID int64, rulers []entities.Ruler) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rulers (match_id, player_num, succession_order, character_name, succession_turn, birth_turn, death_turn)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ru := range rulers {
		if _, err := stmt.ExecContext(ctx, matchID, ru.PlayerNum, ru.SuccessionOrder, ru.CharacterName, ru.SuccessionTurn, ru.BirthTurn, ru.DeathTurn); err != nil {
			return err
		}
	}
	return nil
}

func insertCities(ctx context.Context, tx *sql.Tx, matchID int64, cities []entities.City, projects []entities.CityProject) error {
	cityStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cities (match_id, city_id, player_num, name, founded_turn, x, y)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer cityStmt.Close()

	for _, c := range cities {
		if _, err := cityStmt.ExecContext(ctx, matchID, c.CityID, c.PlayerNum, c.Name, c.FoundedTurn, c.X, c.Y); err != nil {
			return err
		}
	}

	projStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO city_projects (match_id, city_id, project, completed_turn)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer projStmt.Close()

	for _, p := range projects {
		if _, err := projStmt.ExecContext(ctx, matchID, p.CityID, p.Project, p.CompletedTurn); err != nil {
			return err
		}
	}
	return nil
}

func insertTiles(ctx context.Context, tx *sql.Tx, matchID int64, tiles []entities.TerritoryTile) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO territory_tiles (match_id, turn, x, y, city_id)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tiles {
		if _, err := stmt.ExecContext(ctx, matchID, t.Turn, t.X, t.Y, t.CityID); err != nil {
			return err
		}
	}
	return nil
}

func insertFlags(ctx context.Context, tx *sql.Tx, matchID int64, flags []entities.QualityFlag) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quality_flags (match_id, flag, detail) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range flags {
		if _, err := stmt.ExecContext(ctx, matchID, f.Flag, f.Detail); err != nil {
			return err
		}
	}
	return nil
}

// ListMatches returns every imported match ordered by id.
func (r *Repository) ListMatches(ctx context.Context) ([]entities.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, file_name, content_hash, COALESCE(external_match_id, ''),
		       COALESCE(game_name, ''), COALESCE(map_size, ''), map_width, map_height,
		       COALESCE(turn_style, ''), COALESCE(victory_types, ''),
		       COALESCE(game_options, ''), COALESCE(content_flags, ''),
		       total_turns, winner_player_num, imported_at
		FROM matches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	var matches []entities.Match
	for rows.Next() {
		var m entities.Match
		var victories, options, content string
		if err := rows.Scan(
			&m.ID, &m.FileName, &m.ContentHash, &m.ExternalMatchID,
			&m.GameName, &m.MapSize, &m.MapWidth, &m.MapHeight,
			&m.TurnStyle, &victories, &options, &content,
			&m.TotalTurns, &m.WinnerPlayerNum, &m.ImportedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		m.VictoryTypes = unmarshalList(victories)
		m.GameOptions = unmarshalList(options)
		m.ContentFlags = unmarshalList(content)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListPlayers returns the players of one match ordered by player number.
func (r *Repository) ListPlayers(ctx context.Context, matchID int64) ([]entities.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT match_id, player_num, name, normalized_name, COALESCE(nation, ''),
		       score, is_human, participant_id, link_status
		FROM players WHERE match_id = ? ORDER BY player_num`, matchID)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	defer rows.Close()

	var players []entities.Player
	for rows.Next() {
		var p entities.Player
		if err := rows.Scan(
			&p.MatchID, &p.PlayerNum, &p.Name, &p.NormalizedName, &p.Nation,
			&p.Score, &p.IsHuman, &p.ParticipantID, &p.LinkStatus,
		); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Participants returns the persistent roster. Implements ports.Roster.
func (r *Repository) Participants(ctx context.Context) ([]entities.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, display_name, normalized_name, COALESCE(account_id, ''),
		       seed, rank, created_at
		FROM participants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}
	defer rows.Close()

	var participants []entities.Participant
	for rows.Next() {
		var p entities.Participant
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.NormalizedName, &p.AccountID, &p.Seed, &p.Rank, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// UpsertParticipants inserts or updates roster participants in one
// transaction, keyed by account id when present, otherwise by normalized
// name.
func (r *Repository) UpsertParticipants(ctx context.Context, participants []entities.Participant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range participants {
		p := &participants[i]
		if p.NormalizedName == "" {
			p.NormalizedName = entities.NormalizeName(p.DisplayName)
		}

		var existingID int64
		var lookupErr error
		if p.AccountID != "" {
			lookupErr = tx.QueryRowContext(ctx,
				`SELECT id FROM participants WHERE account_id = ?`, p.AccountID).Scan(&existingID)
		} else {
			lookupErr = tx.QueryRowContext(ctx,
				`SELECT id FROM participants WHERE account_id IS NULL AND normalized_name = ?`, p.NormalizedName).Scan(&existingID)
		}

		switch {
		case lookupErr == sql.ErrNoRows:
			res, err := tx.ExecContext(ctx, `
				INSERT INTO participants (display_name, normalized_name, account_id, seed, rank, created_at)
				VALUES (?, ?, NULLIF(?, ''), ?, ?, ?)`,
				p.DisplayName, p.NormalizedName, p.AccountID, p.Seed, p.Rank, time.Now().UTC())
			if err != nil {
				return wrapIntegrity("inserting participant", err)
			}
			p.ID, _ = res.LastInsertId()
		case lookupErr != nil:
			return fmt.Errorf("looking up participant: %w", lookupErr)
		default:
			if _, err := tx.ExecContext(ctx, `
				UPDATE participants SET display_name = ?, normalized_name = ?, seed = ?, rank = ?
				WHERE id = ?`,
				p.DisplayName, p.NormalizedName, p.Seed, p.Rank, existingID); err != nil {
				return wrapIntegrity("updating participant", err)
			}
			p.ID = existingID
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing roster: %w", err)
	}
	return nil
}

// ReplaceOverrides replaces the stored override table with the given set.
// Entries are pre-validated by the resolver; the table exists so downstream
// consumers can inspect which corrections are in force.
func (r *Repository) ReplaceOverrides(ctx context.Context, overrides []entities.NameOverride) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM name_overrides`); err != nil {
		return fmt.Errorf("clearing overrides: %w", err)
	}
	for _, o := range overrides {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO name_overrides (external_match_id, player_name, participant_id, note)
			VALUES (?, ?, ?, ?)`,
			o.ExternalMatchID, o.PlayerName, o.ParticipantID, o.Note); err != nil {
			return wrapIntegrity("inserting override", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing overrides: %w", err)
	}
	return nil
}

// UpdateLinks applies player links in one exclusive transaction. SQLite's
// single-writer model plus the one-connection pool serializes this against
// any concurrent writer of player or match rows for its whole duration.
func (r *Repository) UpdateLinks(ctx context.Context, links []entities.PlayerLink) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE players SET participant_id = ?, link_status = ?
		WHERE match_id = ? AND player_num = ?`)
	if err != nil {
		return fmt.Errorf("preparing link update: %w", err)
	}
	defer stmt.Close()

	for _, l := range links {
		if _, err := stmt.ExecContext(ctx, l.ParticipantID, l.Status, l.MatchID, l.PlayerNum); err != nil {
			return wrapIntegrity("updating link", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing links: %w", err)
	}
	return nil
}

// SaveImportRun records the start of a batch run.
func (r *Repository) SaveImportRun(ctx context.Context, run *entities.ImportRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO import_runs (id, started_at) VALUES (?, ?)`,
		run.ID, run.StartedAt)
	if err != nil {
		return fmt.Errorf("saving import run: %w", err)
	}
	return nil
}

// FinishImportRun fills in a run's final counts.
func (r *Repository) FinishImportRun(ctx context.Context, run *entities.ImportRun) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE import_runs SET finished_at = ?, scanned = ?, imported = ?, skipped = ?, failed = ?
		WHERE id = ?`,
		run.FinishedAt, run.Scanned, run.Imported, run.Skipped, run.Failed, run.ID)
	if err != nil {
		return fmt.Errorf("finishing import run: %w", err)
	}
	return nil
}

// domainTables are the tables reported by TableCounts, in display order.
var domainTables = []string{
	"matches", "players", "participants", "turn_facts", "events",
	"rulers", "cities", "city_projects", "territory_tiles",
	"quality_flags", "import_runs",
}

// TableCounts returns row counts per domain table.
func (r *Repository) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(domainTables))
	for _, table := range domainTables {
		var n int64
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// ListQualityFlags returns every recorded data-quality flag.
func (r *Repository) ListQualityFlags(ctx context.Context) ([]entities.QualityFlag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT match_id, flag, detail FROM quality_flags ORDER BY match_id, flag, detail`)
	if err != nil {
		return nil, fmt.Errorf("listing quality flags: %w", err)
	}
	defer rows.Close()

	var flags []entities.QualityFlag
	for rows.Next() {
		var f entities.QualityFlag
		if err := rows.Scan(&f.MatchID, &f.Flag, &f.Detail); err != nil {
			return nil, fmt.Errorf("scanning quality flag: %w", err)
		}
		flags = append(flags, f)
	}
	return flags, rows.Err()
}
