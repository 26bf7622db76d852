package storage

import (
	"database/sql"
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/model"
)

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(matchID int64) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch stores the match payload and its player rows. Uses INSERT OR
// REPLACE for idempotency.
func (db *DB) InsertMatch(m *model.Match, hash string) error {
	payload, err := jsoniter.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode match %d: %w", m.MatchID, err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM match_players WHERE match_id = ?", m.MatchID); err != nil {
		return fmt.Errorf("clear match_players for %d: %w", m.MatchID, err)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(match_id, hash, radiant_win, pick_count, payload)
		VALUES (?, ?, ?, ?, ?)`,
		m.MatchID, hash, boolInt(m.RadiantWin), len(m.Picks), payload,
	)
	if err != nil {
		return fmt.Errorf("insert match %d: %w", m.MatchID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO match_players(
			match_id, team, slot, account_id, name, hero_id,
			kills, deaths, assists, gpm, xpm
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, team := range []model.Team{model.TeamRadiant, model.TeamDire} {
		for slot, p := range m.Side(team) {
			_, err = stmt.Exec(
				m.MatchID, team.String(), slot, p.AccountID, p.Name, int(p.Hero),
				p.Kills, p.Deaths, p.Assists, p.GPM, p.XPM,
			)
			if err != nil {
				return fmt.Errorf("insert match_players for %d/%s/%d: %w", m.MatchID, team, slot, err)
			}
		}
	}
	return tx.Commit()
}

// ListMatches returns all stored match summaries, most recently imported first.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, hash, radiant_win, pick_count, imported_at
		FROM matches ORDER BY imported_at DESC, match_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		var radiantWin int
		if err := rows.Scan(&s.MatchID, &s.Hash, &radiantWin, &s.PickCount, &s.ImportedAt); err != nil {
			return nil, err
		}
		s.RadiantWin = radiantWin != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchSummary returns the stored header of a match, or nil if unknown.
func (db *DB) GetMatchSummary(matchID int64) (*model.MatchSummary, error) {
	var s model.MatchSummary
	var radiantWin int
	err := db.conn.QueryRow(`
		SELECT match_id, hash, radiant_win, pick_count, imported_at
		FROM matches WHERE match_id = ?`, matchID).
		Scan(&s.MatchID, &s.Hash, &radiantWin, &s.PickCount, &s.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.RadiantWin = radiantWin != 0
	return &s, nil
}

// GetMatch decodes the stored payload of a match, or returns nil if unknown.
func (db *DB) GetMatch(matchID int64) (*model.Match, error) {
	var payload []byte
	err := db.conn.QueryRow("SELECT payload FROM matches WHERE match_id = ?", matchID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m model.Match
	if err := jsoniter.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("decode match %d: %w", matchID, err)
	}
	return &m, nil
}

// replaceAll clears table and bulk-inserts n rows in one transaction.
func (db *DB) replaceAll(table, insert string, n int, row func(i int) []any) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(row(i)...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// ReplaceAbilityStats swaps the stored ability statistics for stats.
func (db *DB) ReplaceAbilityStats(stats map[model.AbilityID]model.AbilityStat) error {
	ids := sortedIDs(stats)
	return db.replaceAll("ability_stats", `
		INSERT INTO ability_stats(ability_id, winrate, num_picks, avg_pick_position)
		VALUES (?,?,?,?)`, len(ids), func(i int) []any {
		s := stats[ids[i]]
		return []any{int(ids[i]), s.Winrate, s.NumPicks, s.AvgPickPosition}
	})
}

// LoadAbilityStats returns all stored ability statistics.
func (db *DB) LoadAbilityStats() (map[model.AbilityID]model.AbilityStat, error) {
	rows, err := db.conn.Query("SELECT ability_id, winrate, num_picks, avg_pick_position FROM ability_stats")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.AbilityID]model.AbilityStat)
	for rows.Next() {
		var id int
		var s model.AbilityStat
		if err := rows.Scan(&id, &s.Winrate, &s.NumPicks, &s.AvgPickPosition); err != nil {
			return nil, err
		}
		out[model.AbilityID(id)] = s
	}
	return out, rows.Err()
}

// ReplacePairStats swaps the stored pair statistics for stats.
func (db *DB) ReplacePairStats(stats map[model.PairKey]model.PairStat) error {
	keys := make([]model.PairKey, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	return db.replaceAll("ability_pair_stats", `
		INSERT INTO ability_pair_stats(ability_low, ability_high, winrate, num_picks)
		VALUES (?,?,?,?)`, len(keys), func(i int) []any {
		k := keys[i]
		s := stats[k]
		return []any{int(k.Low()), int(k.High()), s.Winrate, s.NumPicks}
	})
}

// LoadPairStats returns all stored pair statistics keyed canonically.
func (db *DB) LoadPairStats() (map[model.PairKey]model.PairStat, error) {
	rows, err := db.conn.Query("SELECT ability_low, ability_high, winrate, num_picks FROM ability_pair_stats")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.PairKey]model.PairStat)
	for rows.Next() {
		var lo, hi int
		var s model.PairStat
		if err := rows.Scan(&lo, &hi, &s.Winrate, &s.NumPicks); err != nil {
			return nil, err
		}
		out[model.MakePairKey(model.AbilityID(lo), model.AbilityID(hi))] = s
	}
	return out, rows.Err()
}

// ReplaceShiftStats swaps the stored impact shifts for stats.
func (db *DB) ReplaceShiftStats(stats map[model.AbilityID]model.ShiftStat) error {
	ids := sortedIDs(stats)
	return db.replaceAll("ability_shift_stats", `
		INSERT INTO ability_shift_stats(
			ability_id, kills_shift, deaths_shift, kill_assist_shift,
			gpm_shift, xpm_shift, dmg_shift, healing_shift
		) VALUES (?,?,?,?,?,?,?,?)`, len(ids), func(i int) []any {
		s := stats[ids[i]]
		return []any{int(ids[i]), s.Kills, s.Deaths, s.KillAssist, s.GPM, s.XPM, s.Damage, s.Healing}
	})
}

// LoadShiftStats returns all stored impact shifts.
func (db *DB) LoadShiftStats() (map[model.AbilityID]model.ShiftStat, error) {
	rows, err := db.conn.Query(`
		SELECT ability_id, kills_shift, deaths_shift, kill_assist_shift,
		       gpm_shift, xpm_shift, dmg_shift, healing_shift
		FROM ability_shift_stats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.AbilityID]model.ShiftStat)
	for rows.Next() {
		var id int
		var s model.ShiftStat
		if err := rows.Scan(&id, &s.Kills, &s.Deaths, &s.KillAssist, &s.GPM, &s.XPM, &s.Damage, &s.Healing); err != nil {
			return nil, err
		}
		out[model.AbilityID(id)] = s
	}
	return out, rows.Err()
}

// ReplaceAghsStats swaps the stored Aghanim upgrade statistics for stats.
func (db *DB) ReplaceAghsStats(stats map[model.AbilityID]model.AghsStat) error {
	ids := sortedIDs(stats)
	return db.replaceAll("aghs_stats", `
		INSERT INTO aghs_stats(
			ability_id, total_games,
			scepter_wins, scepter_losses, scepter_total, scepter_winrate,
			shard_wins, shard_losses, shard_total, shard_winrate
		) VALUES (?,?,?,?,?,?,?,?,?,?)`, len(ids), func(i int) []any {
		s := stats[ids[i]]
		return []any{
			int(ids[i]), s.TotalGames,
			s.Scepter.Wins, s.Scepter.Losses, s.Scepter.Total, s.Scepter.Winrate,
			s.Shard.Wins, s.Shard.Losses, s.Shard.Total, s.Shard.Winrate,
		}
	})
}

// LoadAghsStats returns all stored Aghanim upgrade statistics.
func (db *DB) LoadAghsStats() (map[model.AbilityID]model.AghsStat, error) {
	rows, err := db.conn.Query(`
		SELECT ability_id, total_games,
		       scepter_wins, scepter_losses, scepter_total, scepter_winrate,
		       shard_wins, shard_losses, shard_total, shard_winrate
		FROM aghs_stats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.AbilityID]model.AghsStat)
	for rows.Next() {
		var id int
		var s model.AghsStat
		if err := rows.Scan(
			&id, &s.TotalGames,
			&s.Scepter.Wins, &s.Scepter.Losses, &s.Scepter.Total, &s.Scepter.Winrate,
			&s.Shard.Wins, &s.Shard.Losses, &s.Shard.Total, &s.Shard.Winrate,
		); err != nil {
			return nil, err
		}
		out[model.AbilityID(id)] = s
	}
	return out, rows.Err()
}

// LoadSnapshot loads every aggregate statistic table.
func (db *DB) LoadSnapshot() (*model.Snapshot, error) {
	var s model.Snapshot
	var err error
	if s.Abilities, err = db.LoadAbilityStats(); err != nil {
		return nil, fmt.Errorf("load ability stats: %w", err)
	}
	if s.Pairs, err = db.LoadPairStats(); err != nil {
		return nil, fmt.Errorf("load pair stats: %w", err)
	}
	if s.Shifts, err = db.LoadShiftStats(); err != nil {
		return nil, fmt.Errorf("load shift stats: %w", err)
	}
	if s.Aghs, err = db.LoadAghsStats(); err != nil {
		return nil, fmt.Errorf("load aghs stats: %w", err)
	}
	return &s, nil
}

// ReplaceAbilities swaps the stored ability catalog.
func (db *DB) ReplaceAbilities(abilities []catalog.Ability) error {
	return db.replaceAll("abilities", `
		INSERT OR REPLACE INTO abilities(
			ability_id, name, short_name, is_ultimate, owner_hero, has_scepter, has_shard
		) VALUES (?,?,?,?,?,?,?)`, len(abilities), func(i int) []any {
		a := abilities[i]
		return []any{
			int(a.ID), a.Name, a.ShortName, boolInt(a.IsUltimate), int(a.OwnerHero),
			boolInt(a.HasScepter), boolInt(a.HasShard),
		}
	})
}

// ReplaceHeroes swaps the stored hero catalog.
func (db *DB) ReplaceHeroes(heroes []catalog.Hero) error {
	return db.replaceAll("heroes", `
		INSERT OR REPLACE INTO heroes(hero_id, name, picture) VALUES (?,?,?)`,
		len(heroes), func(i int) []any {
			h := heroes[i]
			return []any{int(h.ID), h.Name, h.Picture}
		})
}

// LoadCatalog returns the stored ability and hero catalog.
func (db *DB) LoadCatalog() (*catalog.Catalog, error) {
	cat := catalog.New()

	rows, err := db.conn.Query(`
		SELECT ability_id, name, short_name, is_ultimate, owner_hero, has_scepter, has_shard
		FROM abilities`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, owner, ult, scepter, shard int
		var a catalog.Ability
		if err := rows.Scan(&id, &a.Name, &a.ShortName, &ult, &owner, &scepter, &shard); err != nil {
			return nil, err
		}
		a.ID = model.AbilityID(id)
		a.OwnerHero = model.HeroID(owner)
		a.IsUltimate = ult != 0
		a.HasScepter = scepter != 0
		a.HasShard = shard != 0
		cat.Abilities[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hrows, err := db.conn.Query("SELECT hero_id, name, picture FROM heroes")
	if err != nil {
		return nil, err
	}
	defer hrows.Close()
	for hrows.Next() {
		var id int
		var h catalog.Hero
		if err := hrows.Scan(&id, &h.Name, &h.Picture); err != nil {
			return nil, err
		}
		h.ID = model.HeroID(id)
		cat.Heroes[h.ID] = h
	}
	return cat, hrows.Err()
}

// Overview is the high-level content of the database.
type Overview struct {
	TotalMatches    int
	RadiantWins     int
	EarliestImport  string
	LatestImport    string
	UniquePlayers   int
	AbilityStats    int
	PairStats       int
	QualifyingPairs int
	ShiftStats      int
	AghsStats       int
	Abilities       int
	Heroes          int
}

// GetOverview counts the rows of every table.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(1), COALESCE(SUM(radiant_win), 0),
		       COALESCE(MIN(imported_at), ''), COALESCE(MAX(imported_at), '')
		FROM matches`).Scan(&ov.TotalMatches, &ov.RadiantWins, &ov.EarliestImport, &ov.LatestImport)
	if err != nil {
		return ov, fmt.Errorf("count matches: %w", err)
	}

	counts := []struct {
		dst   *int
		query string
	}{
		{&ov.UniquePlayers, "SELECT COUNT(DISTINCT account_id) FROM match_players WHERE account_id != 0"},
		{&ov.AbilityStats, "SELECT COUNT(1) FROM ability_stats"},
		{&ov.PairStats, "SELECT COUNT(1) FROM ability_pair_stats"},
		{&ov.QualifyingPairs, fmt.Sprintf("SELECT COUNT(1) FROM ability_pair_stats WHERE num_picks >= %d", model.MinPairPicks)},
		{&ov.ShiftStats, "SELECT COUNT(1) FROM ability_shift_stats"},
		{&ov.AghsStats, "SELECT COUNT(1) FROM aghs_stats"},
		{&ov.Abilities, "SELECT COUNT(1) FROM abilities"},
		{&ov.Heroes, "SELECT COUNT(1) FROM heroes"},
	}
	for _, c := range counts {
		if err := db.conn.QueryRow(c.query).Scan(c.dst); err != nil {
			return ov, fmt.Errorf("overview: %w", err)
		}
	}
	return ov, nil
}

// HeroCount is how often a hero appears across stored matches.
type HeroCount struct {
	HeroID  model.HeroID
	Matches int
	Wins    int
}

// GetTopHeroes returns the most played heroes with their win counts.
func (db *DB) GetTopHeroes(limit int) ([]HeroCount, error) {
	rows, err := db.conn.Query(`
		SELECT p.hero_id, COUNT(1) AS n,
		       SUM(CASE WHEN (p.team = 'Radiant') = (m.radiant_win = 1) THEN 1 ELSE 0 END)
		FROM match_players p
		JOIN matches m ON m.match_id = p.match_id
		GROUP BY p.hero_id
		ORDER BY n DESC, p.hero_id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HeroCount
	for rows.Next() {
		var id int
		var h HeroCount
		if err := rows.Scan(&id, &h.Matches, &h.Wins); err != nil {
			return nil, err
		}
		h.HeroID = model.HeroID(id)
		out = append(out, h)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns every value as text.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func sortedIDs[V any](m map[model.AbilityID]V) []model.AbilityID {
	ids := make([]model.AbilityID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
