package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sanguo/engine/internal/catalog"
	"github.com/sanguo/engine/internal/model"
)

const cardsYAML = `
cards:
  - id: Base.Slash
    name: Slash
    type: basic
    subType: slash
    suit: spade
    pack: base
    count: 20
  - id: Base.Dodge
    name: Dodge
    type: basic
    subType: dodge
    suit: heart
    pack: base
    count: 10
  - id: Expansion.Lightning
    name: Lightning
    type: trick
    subType: lightning
    suit: club
    pack: expansion
    count: 2
`

const charactersYAML = `
characters:
  - id: hero.liubei
    name: Liu Bei
    faction: shu
    gender: male
    maxHp: 4
    skills: [rende]
  - id: hero.sunshangxiang
    name: Sun Shangxiang
    faction: wu
    gender: female
    maxHp: 3
    skills: [jieyin, xiaoji]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCardCatalogAndLookup(t *testing.T) {
	path := writeFile(t, "cards.yaml", cardsYAML)
	cat, err := catalog.LoadCardCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def, ok := cat.Lookup("Base.Slash")
	if !ok {
		t.Fatal("expected to find Base.Slash")
	}
	if def.CardType != model.CardTypeBasic || def.CardSubType != model.SubTypeSlash || def.DefaultSuit != model.SuitSpade {
		t.Fatalf("unexpected parsed definition: %+v", def)
	}

	if _, ok := cat.Lookup("Nonexistent"); ok {
		t.Fatal("expected lookup of an unknown card to fail")
	}
}

func TestCardsInPacksFiltersAndPreservesOrder(t *testing.T) {
	path := writeFile(t, "cards.yaml", cardsYAML)
	cat, err := catalog.LoadCardCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := cat.CardsInPacks([]string{"base"})
	if len(entries) != 2 {
		t.Fatalf("expected 2 base-pack entries, got %+v", entries)
	}
	if entries[0].DefinitionID != "Base.Slash" || entries[0].Count != 20 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].DefinitionID != "Base.Dodge" || entries[1].Count != 10 {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}

	all := cat.CardsInPacks([]string{"base", "expansion"})
	if len(all) != 3 {
		t.Fatalf("expected 3 entries across both packs, got %+v", all)
	}
}

func TestLoadCharacterCatalogAndCandidates(t *testing.T) {
	cardsPath := writeFile(t, "cards.yaml", cardsYAML)
	cat, err := catalog.LoadCardCatalog(cardsPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	charsPath := writeFile(t, "characters.yaml", charactersYAML)
	if err := cat.LoadCharacterCatalog(charsPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def, ok := cat.LookupCharacter("hero.liubei")
	if !ok {
		t.Fatal("expected to find hero.liubei")
	}
	if def.Gender != model.GenderMale || def.MaxHP != 4 || def.FactionID != "shu" {
		t.Fatalf("unexpected parsed character: %+v", def)
	}
	if len(def.Skills) != 1 || def.Skills[0] != "rende" {
		t.Fatalf("unexpected skills: %+v", def.Skills)
	}

	candidates := cat.Candidates()
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", candidates)
	}
	if candidates[0].CharacterID != "hero.liubei" || candidates[1].CharacterID != "hero.sunshangxiang" {
		t.Fatalf("expected candidates in file order, got %+v", candidates)
	}
}

func TestLoadCardCatalogMissingFileErrors(t *testing.T) {
	if _, err := catalog.LoadCardCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
