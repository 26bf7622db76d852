package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/aggregator"
	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/model"
	"github.com/pable/go-ad-metrics/internal/storage"
	"github.com/pable/go-ad-metrics/internal/synergy"
)

const analyzeSystemPrompt = `You are a Dota 2 Ability Draft analyst. You are given structured data
from a draft replay tool and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable: focus on draft decisions the player could change.
- Avoid generic Dota advice unless it directly explains a pattern in the data.

Metrics glossary:
- Win rate: share of historical games won by players who drafted the ability.
- Synergy (pp): pair win rate minus the mean of the two single win rates, in
  percentage points. Only pairs with at least 10 games are reported.
- Player/team synergy: mean pair synergy weighted by ln(pair games).
- Shifts: average per-game change in kills, deaths, assists, GPM, XPM, hero
  damage and healing attributed to having the ability. Fewer deaths is better.
- Scepter/Shard rate: share of games with the ability where the upgrade was bought.
- Seat: draft rank within the team (1 = first to pick).`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzeMatchCmd = &cobra.Command{
	Use:   "match <match-id> <question>",
	Short: "Analyze a single draft with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeMatch,
}

var analyzeAbilityCmd = &cobra.Command{
	Use:   "ability <id|name> <question>",
	Short: "Analyze one ability's statistics and partners with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeAbility,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to config and $ANTHROPIC_API_KEY)")

	analyzeCmd.AddCommand(analyzeMatchCmd)
	analyzeCmd.AddCommand(analyzeAbilityCmd)
}

func runAnalyzeMatch(cmd *cobra.Command, args []string) error {
	id, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	question := args[1]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cat, snap, err := loadReference(db)
	if err != nil {
		return err
	}
	lm, err := loadMatch(db, id, cat)
	if err != nil {
		return err
	}
	if lm == nil {
		return fmt.Errorf("no match found with id %d", id)
	}

	contextJSON, err := buildMatchContext(lm, cat, snap)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), contextJSON, question)
}

func runAnalyzeAbility(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cat, snap, err := loadReference(db)
	if err != nil {
		return err
	}
	id, err := resolveAbility(cat, args[0])
	if err != nil {
		return err
	}

	contextJSON, err := buildAbilityContext(id, cat, snap)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), contextJSON, args[1])
}

// synergyPP converts a synergy delta to rounded percentage points, or nil
// when unknown so it serialises as null.
func synergyPP(v float64, ok bool) any {
	if !ok {
		return nil
	}
	return round2(v * 100)
}

// buildMatchContext serialises a repaired draft into compact JSON.
func buildMatchContext(lm *loadedMatch, cat *catalog.Catalog, snap *model.Snapshot) (string, error) {
	type abilityEntry struct {
		Name    string `json:"name"`
		Slot    string `json:"slot"`
		Winrate any    `json:"winrate_pct"`
		Picked  int    `json:"pick_order,omitempty"`
	}
	type playerEntry struct {
		Name      string             `json:"name"`
		Team      string             `json:"team"`
		Seat      int                `json:"seat"`
		Hero      string             `json:"hero"`
		Abilities []abilityEntry     `json:"abilities"`
		Synergy   any                `json:"synergy_pp"`
		KDA       string             `json:"kda"`
		GPM       int                `json:"gpm"`
		XPM       int                `json:"xpm"`
		Damage    int                `json:"hero_damage"`
		Impact    map[string]float64 `json:"impact"`
	}

	m := lm.Match
	order := lm.Timeline.Order()
	pickOrder := make(map[model.AbilityID]int, len(m.Picks))
	for _, pk := range m.Picks {
		pickOrder[pk.AbilityID] = pk.PickOrder
	}

	impact := make(map[string]map[string]float64)
	for _, r := range aggregator.Aggregate(m, snap, cat, order) {
		vals := make(map[string]float64, aggregator.NumColumns)
		for _, c := range aggregator.Columns() {
			if c.IsRate() && !r.HasUpgrade(c) {
				continue
			}
			vals[c.String()] = round2(r.Value(c))
		}
		impact[fmt.Sprintf("%s/%d", r.Ref.Team, r.Ref.Index)] = vals
	}

	final := lm.Timeline.At(lm.Timeline.Len())
	var players []playerEntry
	for _, ps := range final.Players() {
		p := ps.Player
		abilities := make([]abilityEntry, 0, len(p.Abilities))
		for _, id := range p.Abilities {
			var wr any
			if v, ok := snap.Winrate(id); ok {
				wr = round2(v * 100)
			}
			abilities = append(abilities, abilityEntry{
				Name:    cat.AbilityName(id),
				Slot:    cat.Resolve(id).Kind.String(),
				Winrate: wr,
				Picked:  pickOrder[id],
			})
		}
		players = append(players, playerEntry{
			Name:      p.DisplayName(),
			Team:      ps.Ref.Team.String(),
			Seat:      ps.Seat + 1,
			Hero:      cat.HeroName(p.Hero),
			Abilities: abilities,
			Synergy:   synergyPP(synergy.PlayerSynergy(snap, p.Abilities)),
			KDA:       fmt.Sprintf("%d/%d/%d", p.Kills, p.Deaths, p.Assists),
			GPM:       p.GPM,
			XPM:       p.XPM,
			Damage:    p.HeroDamage,
			Impact:    impact[fmt.Sprintf("%s/%d", ps.Ref.Team, ps.Ref.Index)],
		})
	}

	var repairs []string
	for _, s := range lm.Repair.Swaps {
		repairs = append(repairs, fmt.Sprintf("swapped ability lists of %s and %s",
			m.Side(s.A.Team)[s.A.Index].DisplayName(), m.Side(s.B.Team)[s.B.Index].DisplayName()))
	}

	doc := map[string]interface{}{
		"subject":         "match",
		"match_id":        m.MatchID,
		"winner":          m.Winner().String(),
		"picks":           len(m.Picks),
		"radiant_synergy": synergyPP(synergy.TeamSynergy(snap, m.Radiant)),
		"dire_synergy":    synergyPP(synergy.TeamSynergy(snap, m.Dire)),
		"players":         players,
		"ownership_fixes": repairs,
	}

	b, err := jsoniter.Marshal(doc)
	return string(b), err
}

// buildAbilityContext serialises one ability's record and top partners.
func buildAbilityContext(id model.AbilityID, cat *catalog.Catalog, snap *model.Snapshot) (string, error) {
	type partnerEntry struct {
		Name     string  `json:"name"`
		PairWR   float64 `json:"pair_winrate_pct"`
		Synergy  float64 `json:"synergy_pp"`
		NumPicks int     `json:"games"`
	}

	partners := make([]partnerEntry, 0)
	for _, p := range synergy.TopPartners(snap, id, cfg.Replay.TopN) {
		partners = append(partners, partnerEntry{
			Name:     cat.AbilityName(p.Partner(id)),
			PairWR:   round2(p.Winrate * 100),
			Synergy:  round2(p.Synergy * 100),
			NumPicks: p.NumPicks,
		})
	}

	doc := map[string]interface{}{
		"subject":  "ability",
		"name":     cat.AbilityName(id),
		"slot":     cat.Resolve(id).Kind.String(),
		"partners": partners,
	}
	if hero, ok := cat.Owner(id); ok {
		doc["hero"] = cat.HeroName(hero)
	}
	if st, ok := snap.Abilities[id]; ok {
		doc["winrate_pct"] = round2(st.Winrate * 100)
		doc["games"] = st.NumPicks
		doc["avg_pick_position"] = round2(st.AvgPickPosition)
	}
	if sh, ok := snap.Shifts[id]; ok {
		doc["shifts"] = map[string]float64{
			"kills":   round2(sh.Kills),
			"deaths":  round2(sh.Deaths),
			"assists": round2(sh.Assists()),
			"gpm":     round2(sh.GPM),
			"xpm":     round2(sh.XPM),
			"damage":  round2(sh.Damage),
			"healing": round2(sh.Healing),
		}
	}
	if ag, ok := snap.Aghs[id]; ok {
		if rate, ok := ag.ScepterRate(); ok && cat.HasScepter(id) {
			doc["scepter_rate_pct"] = round2(rate * 100)
		}
		if rate, ok := ag.ShardRate(); ok && cat.HasShard(id) {
			doc["shard_rate_pct"] = round2(rate * 100)
		}
	}

	b, err := jsoniter.Marshal(doc)
	return string(b), err
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	if v < 0 {
		return -round2(-v)
	}
	return float64(int(v*100+0.5)) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, dataJSON, question string) error {
	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = cfg.Analyze.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}
	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.Analyze.Model
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)
	log.WithField("component", "analyze").WithField("model", modelID).WithField("context_bytes", len(dataJSON)).Debug("sending request")

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: cfg.Analyze.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed — check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
