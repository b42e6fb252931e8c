package engine

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
	"sort"

	"github.com/sanguo/engine/internal/catalog"
	"github.com/sanguo/engine/internal/clock"
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/identity"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/resolve"
	"github.com/sanguo/engine/internal/skill"
	"github.com/sanguo/engine/internal/turn"
	"github.com/sanguo/engine/internal/zone"
)

// turnServiceSeat marks event subscriptions registered on the engine's own
// behalf rather than any player's (mirrors turn.RegisterPhaseServices).
const turnServiceSeat = -1

// Dependencies bundles the content catalogs and infrastructure collaborators
// New needs but never owns (spec.md §1 "content catalogs ... consumed via
// named interfaces only").
type Dependencies struct {
	Cards      catalog.CardCatalog
	Decks      catalog.DeckCatalog
	Characters catalog.CharacterCatalog
	Skills     identity.SkillRegistry

	// Clock stamps every event; defaults to clock.SystemClock if nil.
	Clock clock.Clock
	// Sink receives handler panics; defaults to event.NoopSink if nil.
	Sink event.DiagnosticSink
}

// New builds a fresh match from cfg: validates, constructs the game object,
// the per-seat zones and the card arena, deals initial hands, binds player
// identities, and initializes the first turn (spec.md §6 external
// interfaces). Grounded on the teacher's NewDuel (internal/game/duel.go),
// generalized from its fixed two-deck/two-player shape to N players and a
// catalog-resolved deck.
func New(cfg GameConfig, deps Dependencies) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clk := deps.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}

	g := model.NewGame(1)
	bus := event.NewBus(g.Handle, clk, deps.Sink)

	if err := buildPlayers(g, cfg.PlayerConfigs); err != nil {
		return nil, err
	}

	zoneSvc := zone.NewService(bus)
	skillMgr := skill.NewManager(bus)

	roles := make(map[int]model.RoleID, len(cfg.PlayerConfigs))
	for _, pc := range cfg.PlayerConfigs {
		roles[pc.Seat] = pc.Role
	}
	identity.AssignIdentities(g, bus, roles)

	for _, pc := range cfg.PlayerConfigs {
		if err := bindPlayer(g, bus, deps.Characters, deps.Skills, skillMgr, pc); err != nil {
			return nil, err
		}
	}

	rng := seededRand(cfg.Seed)
	ids, err := buildDeck(g, deps.Cards, deps.Decks, cfg.DeckConfig.IncludedPacks)
	if err != nil {
		return nil, err
	}
	shuffle(ids, rng)
	g.Zones[model.ZoneDrawPile] = model.NewZone(model.ZoneDrawPile, nil, false)
	g.Zones[model.ZoneDiscardPile] = model.NewZone(model.ZoneDiscardPile, nil, true)
	g.Zone(model.ZoneDrawPile).Insert(ids, model.ToBottom)

	deckMgr := zone.NewDeckManager(rng, zoneSvc)

	event.Publish(bus, event.GameCreated{Base: bus.Stamp()})

	handCount := cfg.handCount()
	for _, p := range g.Players {
		drawn, err := zoneSvc.Draw(g, deckMgr, p, handCount)
		if err != nil {
			return nil, err
		}
		if len(drawn) < handCount {
			return nil, newError(ErrNotEnoughCardsForInitialHands, "draw pile exhausted dealing seat %d's opening hand", p.Seat)
		}
	}

	stack := resolve.NewStack()
	turnEngine := turn.NewEngine(bus)
	turn.RegisterPhaseServices(g, bus, stack)
	event.Subscribe(bus, turnServiceSeat, func(e event.TurnStart) {
		if p := g.Player(e.Seat); p != nil {
			p.ClearTurnFlags("slashCountThisTurn")
		}
	})

	firstSeat := g.Players[0].Seat
	turnEngine.InitializeTurn(g, firstSeat)
	event.Publish(bus, event.GameStarted{Base: bus.Stamp()})

	e := &Engine{
		game:  g,
		bus:   bus,
		stack: stack,
		turn:  turnEngine,
		zone:  zoneSvc,
		deck:  deckMgr,
		skills: skillMgr,
	}
	e.ctx = &resolve.Context{
		Game: g,
		Services: &resolve.Services{
			Zone:   zoneSvc,
			Deck:   deckMgr,
			Bus:    bus,
			Skills: skillMgr,
		},
	}
	return e, nil
}

func buildPlayers(g *model.Game, pcs []PlayerConfig) error {
	ordered := make([]PlayerConfig, len(pcs))
	copy(ordered, pcs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seat < ordered[j].Seat })

	g.Players = make([]*model.Player, len(ordered))
	for _, pc := range ordered {
		maxHP := pc.MaxHealth
		if maxHP <= 0 {
			maxHP = 1 // placeholder until bindPlayer resolves it from the catalog
		}
		p := model.NewPlayer(pc.Seat, maxHP)
		g.Players[pc.Seat] = p
		g.Zones[p.HandZone] = model.NewZone(p.HandZone, &p.Seat, false)
		g.Zones[p.EquipZone] = model.NewZone(p.EquipZone, &p.Seat, true)
		g.Zones[p.JudgeZone] = model.NewZone(p.JudgeZone, &p.Seat, true)
	}
	return nil
}

// bindPlayer resolves one seat's hero/faction/health, preferring the catalog
// (via identity.Select) when a hero id is named and letting any explicit
// config field override the catalog default afterward, so config is the
// final authority over per-match health tuning.
func bindPlayer(g *model.Game, bus *event.Bus, characters catalog.CharacterCatalog, skills identity.SkillRegistry, mgr *skill.Manager, pc PlayerConfig) error {
	p := g.Player(pc.Seat)
	if pc.HeroID != "" {
		if !identity.Select(g, bus, pc.Seat, pc.HeroID, characters, skills, mgr) {
			return newError(ErrInvalidConfig, "seat %d: unknown heroId %q", pc.Seat, pc.HeroID)
		}
	}
	if pc.FactionID != "" {
		p.FactionID = pc.FactionID
	}
	if pc.MaxHealth > 0 {
		p.MaxHealth = pc.MaxHealth
	}
	if pc.InitialHealth > 0 {
		p.CurrentHealth = pc.InitialHealth
	} else {
		p.CurrentHealth = p.MaxHealth
	}
	if pc.Gender != model.GenderNeutral {
		p.Gender = pc.Gender
	}
	return nil
}

func buildDeck(g *model.Game, cards catalog.CardCatalog, decks catalog.DeckCatalog, packs []string) ([]model.CardID, error) {
	entries := decks.CardsInPacks(packs)
	var nextID model.CardID = 1
	var ids []model.CardID
	for _, entry := range entries {
		def, ok := cards.Lookup(entry.DefinitionID)
		if !ok {
			return nil, newError(ErrInvalidConfig, "deck pack references unknown card definition %q", entry.DefinitionID)
		}
		for i := 0; i < entry.Count; i++ {
			id := nextID
			nextID++
			g.Cards[id] = &model.Card{
				ID:      id,
				DefID:   entry.DefinitionID,
				Name:    def.Name,
				Suit:    def.DefaultSuit,
				Type:    def.CardType,
				SubType: def.CardSubType,
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// seededRand constructs the match's single randomness source (spec.md §8
// replay contract: same seed reproduces the same shuffle/reshuffle
// sequence). A nil seed draws fresh entropy for an unreplayable match.
func seededRand(seed *int64) *mathrand.Rand {
	var hi, lo uint64
	if seed != nil {
		s := uint64(*seed)
		hi, lo = s, s^0x9e3779b97f4a7c15
	} else {
		var buf [16]byte
		cryptorand.Read(buf[:])
		hi = binary.LittleEndian.Uint64(buf[:8])
		lo = binary.LittleEndian.Uint64(buf[8:])
	}
	return mathrand.New(mathrand.NewPCG(hi, lo))
}

func shuffle(ids []model.CardID, rng *mathrand.Rand) {
	for i := len(ids) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}
