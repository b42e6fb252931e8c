package engine

import "github.com/sanguo/engine/internal/model"

// PlayerConfig is one seat's starting assignment (spec.md §6 GameConfig
// "playerConfigs[]"). Either HeroID names a catalog character (its gender,
// max health and skills are bound from the catalog, then overridden by any
// non-zero field below) or HeroID is left blank and MaxHealth must be
// supplied directly (InitialHealth defaults to it), for game modes that defer character choice to
// an interactive identity.Offer/identity.Select round after setup.
type PlayerConfig struct {
	Seat          int          `yaml:"seat"`
	Role          model.RoleID `yaml:"role"`
	FactionID     string       `yaml:"factionId"`
	HeroID        string       `yaml:"heroId"`
	Gender        model.Gender `yaml:"gender"`
	MaxHealth     int          `yaml:"maxHealth"`
	InitialHealth int          `yaml:"initialHealth"`
}

// DeckConfig names the content packs a deck is built from (spec.md §6
// "deckConfig.includedPacks[]").
type DeckConfig struct {
	IncludedPacks []string `yaml:"includedPacks"`
}

// GameConfig is the full external setup contract (spec.md §6). The same
// (Seed, GameConfig, choice sequence) triple must reproduce a bit-identical
// event log.
type GameConfig struct {
	PlayerConfigs        []PlayerConfig `yaml:"playerConfigs"`
	DeckConfig           DeckConfig     `yaml:"deckConfig"`
	Seed                 *int64         `yaml:"seed"`
	GameModeID           string         `yaml:"gameModeId"`
	GameVariantOptions   map[string]any `yaml:"gameVariantOptions"`
	InitialHandCardCount int            `yaml:"initialHandCardCount"`
}

// Validate reports the first structural problem found in cfg (spec.md §6
// INVALID_CONFIG). It does not touch any catalog — unknown pack/hero ids are
// only discoverable once New resolves them.
func (cfg GameConfig) Validate() error {
	if len(cfg.PlayerConfigs) < 2 {
		return newError(ErrInvalidConfig, "at least 2 playerConfigs required, got %d", len(cfg.PlayerConfigs))
	}
	seen := make(map[int]bool, len(cfg.PlayerConfigs))
	for _, pc := range cfg.PlayerConfigs {
		if seen[pc.Seat] {
			return newError(ErrInvalidConfig, "duplicate seat %d", pc.Seat)
		}
		seen[pc.Seat] = true
		if pc.HeroID == "" && pc.MaxHealth <= 0 {
			return newError(ErrInvalidConfig, "seat %d: maxHealth required when heroId is blank", pc.Seat)
		}
	}
	for i := 0; i < len(cfg.PlayerConfigs); i++ {
		if !seen[i] {
			return newError(ErrInvalidConfig, "seats must be contiguous starting at 0, missing seat %d", i)
		}
	}
	if len(cfg.DeckConfig.IncludedPacks) == 0 {
		return newError(ErrInvalidConfig, "deckConfig.includedPacks must name at least one pack")
	}
	return nil
}

// handCount returns InitialHandCardCount, defaulting to 4 (spec.md §6).
func (cfg GameConfig) handCount() int {
	if cfg.InitialHandCardCount > 0 {
		return cfg.InitialHandCardCount
	}
	return 4
}
