// Package catalog declares the content-catalog interfaces the engine consumes
// (spec.md §1, §6: "content catalogs ... consumed via named interfaces only").
// The engine never ships real card/character art or flavor text; it only
// needs the structural metadata below to build a deck and bind characters.
//
// YAMLCatalog is a reference implementation good enough to drive tests and the
// sanguo-replay CLI, grounded on the teacher's own deck-loading code
// (internal/game/deck.go used gopkg.in/yaml.v3 the same way).
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sanguo/engine/internal/model"
)

// CardDefinition is the static metadata behind a card definition id.
type CardDefinition struct {
	Name        string
	CardType    model.CardType
	CardSubType model.CardSubType
	DefaultSuit model.Suit // SuitNone if the instance's suit is assigned at deck-build time
}

// CardCatalog resolves a definition id (e.g. "Base.Slash") to its metadata.
type CardCatalog interface {
	Lookup(defID string) (CardDefinition, bool)
}

// DeckCardEntry names how many copies of one definition id a pack
// contributes to a freshly built deck (spec.md §6
// "deckConfig.includedPacks[]... determines which card definition-ids
// populate the deck").
type DeckCardEntry struct {
	DefinitionID string
	Count        int
}

// DeckCatalog resolves the set of packs a game config names into the
// concrete card counts that populate the draw-pile.
type DeckCatalog interface {
	CardsInPacks(packs []string) []DeckCardEntry
}

// CharacterDefinition is the static metadata behind a selectable character.
type CharacterDefinition struct {
	CharacterID string
	Name        string
	FactionID   string
	Gender      model.Gender
	MaxHP       int
	Skills      []string // skill ids this character grants on selection
}

// CharacterCatalog offers character candidates and resolves by id.
type CharacterCatalog interface {
	Candidates() []CharacterDefinition
	LookupCharacter(characterID string) (CharacterDefinition, bool)
}

// --- YAML-backed reference implementation ---

// cardFile is the on-disk shape for a card catalog YAML document.
type cardFile struct {
	Cards []cardEntry `yaml:"cards"`
}

type cardEntry struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	SubType string `yaml:"subType"`
	Suit    string `yaml:"suit"`
	Pack    string `yaml:"pack"`
	Count   int    `yaml:"count"`
}

// characterFile is the on-disk shape for a character catalog YAML document.
type characterFile struct {
	Characters []characterEntry `yaml:"characters"`
}

type characterEntry struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Faction string   `yaml:"faction"`
	Gender  string   `yaml:"gender"`
	MaxHP   int      `yaml:"maxHp"`
	Skills  []string `yaml:"skills"`
}

// YAMLCatalog implements both CardCatalog and CharacterCatalog from two YAML
// documents loaded up front.
type YAMLCatalog struct {
	cards      map[string]CardDefinition
	characters map[string]CharacterDefinition
	order      []string // character ids in file order, for stable Candidates()

	packOrder []string // card ids in file order, for stable CardsInPacks()
	packOf    map[string]string
	countOf   map[string]int
}

// LoadCardCatalog parses a card-definition YAML file into a CardCatalog.
func LoadCardCatalog(path string) (*YAMLCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card catalog: %w", err)
	}
	var cf cardFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse card catalog: %w", err)
	}
	c := &YAMLCatalog{
		cards:      make(map[string]CardDefinition),
		characters: make(map[string]CharacterDefinition),
		packOf:     make(map[string]string),
		countOf:    make(map[string]int),
	}
	for _, e := range cf.Cards {
		c.cards[e.ID] = CardDefinition{
			Name:        e.Name,
			CardType:    parseCardType(e.Type),
			CardSubType: parseSubType(e.SubType),
			DefaultSuit: parseSuit(e.Suit),
		}
		c.packOf[e.ID] = e.Pack
		c.countOf[e.ID] = e.Count
		c.packOrder = append(c.packOrder, e.ID)
	}
	return c, nil
}

// CardsInPacks returns, in file order, the definition-id/count pairs whose
// pack tag is in packs.
func (c *YAMLCatalog) CardsInPacks(packs []string) []DeckCardEntry {
	want := make(map[string]bool, len(packs))
	for _, p := range packs {
		want[p] = true
	}
	out := make([]DeckCardEntry, 0, len(c.packOrder))
	for _, id := range c.packOrder {
		if want[c.packOf[id]] {
			out = append(out, DeckCardEntry{DefinitionID: id, Count: c.countOf[id]})
		}
	}
	return out
}

// LoadCharacterCatalog parses a character-definition YAML file and merges it
// into the receiver (allowing card and character catalogs to be loaded
// independently or from the same file).
func (c *YAMLCatalog) LoadCharacterCatalog(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read character catalog: %w", err)
	}
	var chf characterFile
	if err := yaml.Unmarshal(data, &chf); err != nil {
		return fmt.Errorf("parse character catalog: %w", err)
	}
	for _, e := range chf.Characters {
		c.characters[e.ID] = CharacterDefinition{
			CharacterID: e.ID,
			Name:        e.Name,
			FactionID:   e.Faction,
			Gender:      parseGender(e.Gender),
			MaxHP:       e.MaxHP,
			Skills:      e.Skills,
		}
		c.order = append(c.order, e.ID)
	}
	return nil
}

func (c *YAMLCatalog) Lookup(defID string) (CardDefinition, bool) {
	d, ok := c.cards[defID]
	return d, ok
}

func (c *YAMLCatalog) LookupCharacter(characterID string) (CharacterDefinition, bool) {
	d, ok := c.characters[characterID]
	return d, ok
}

// Candidates returns every loaded character in load order.
func (c *YAMLCatalog) Candidates() []CharacterDefinition {
	out := make([]CharacterDefinition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.characters[id])
	}
	return out
}

func parseCardType(s string) model.CardType {
	switch s {
	case "trick":
		return model.CardTypeTrick
	case "equip":
		return model.CardTypeEquip
	default:
		return model.CardTypeBasic
	}
}

func parseSubType(s string) model.CardSubType {
	switch s {
	case "slash":
		return model.SubTypeSlash
	case "dodge":
		return model.SubTypeDodge
	case "peach":
		return model.SubTypePeach
	case "dismantle":
		return model.SubTypeDismantle
	case "seize":
		return model.SubTypeSeize
	case "drawFromDeck":
		return model.SubTypeDrawFromDeck
	case "harvest":
		return model.SubTypeHarvest
	case "volleyOfArrows":
		return model.SubTypeVolleyOfArrows
	case "southernInvasion":
		return model.SubTypeSouthernInvasion
	case "duel":
		return model.SubTypeDuel
	case "borrowABladeForMurder":
		return model.SubTypeBorrowABladeForMurder
	case "nullification":
		return model.SubTypeNullification
	case "lightning":
		return model.SubTypeLightning
	case "distraction":
		return model.SubTypeDistraction
	case "weapon":
		return model.SubTypeWeapon
	case "armor":
		return model.SubTypeArmor
	case "offensiveHorse":
		return model.SubTypeOffensiveHorse
	case "defensiveHorse":
		return model.SubTypeDefensiveHorse
	default:
		return model.SubTypeNone
	}
}

func parseSuit(s string) model.Suit {
	switch s {
	case "spade":
		return model.SuitSpade
	case "heart":
		return model.SuitHeart
	case "club":
		return model.SuitClub
	case "diamond":
		return model.SuitDiamond
	default:
		return model.SuitNone
	}
}

func parseGender(s string) model.Gender {
	switch s {
	case "male":
		return model.GenderMale
	case "female":
		return model.GenderFemale
	default:
		return model.GenderNeutral
	}
}
