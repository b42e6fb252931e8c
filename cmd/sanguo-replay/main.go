// Command sanguo-replay drives one match from a persisted ReplayRecord and
// prints the resulting event log (spec.md §6). It fills the "run one match
// from the command line" role the teacher's cmd/tcgx-cli filled for a live
// WebSocket duel; here there is no live opponent, only a recorded input
// stream and a deterministic engine to replay it through.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanguo/engine/internal/catalog"
	"github.com/sanguo/engine/internal/clock"
	"github.com/sanguo/engine/internal/engine"
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/replaylog"
	"github.com/sanguo/engine/internal/skill"
)

func main() {
	var cardsPath, charsPath string

	root := &cobra.Command{
		Use:           "sanguo-replay <record.yaml>",
		Short:         "Replay a persisted sanguo match and print its event log",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args[0], cardsPath, charsPath)
		},
	}
	root.Flags().StringVar(&cardsPath, "cards", "cards.yaml", "path to the card catalog YAML file")
	root.Flags().StringVar(&charsPath, "characters", "characters.yaml", "path to the character catalog YAML file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runReplay(recordPath, cardsPath, charsPath string) error {
	data, err := os.ReadFile(recordPath)
	if err != nil {
		return fmt.Errorf("read record: %w", err)
	}
	record, err := replaylog.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("parse record: %w", err)
	}

	var cfg engine.GameConfig
	if err := record.InitialConfig.Decode(&cfg); err != nil {
		return fmt.Errorf("decode initialConfig: %w", err)
	}
	cfg.Seed = record.Seed

	cardCatalog, err := catalog.LoadCardCatalog(cardsPath)
	if err != nil {
		return fmt.Errorf("load card catalog: %w", err)
	}
	if err := cardCatalog.LoadCharacterCatalog(charsPath); err != nil {
		return fmt.Errorf("load character catalog: %w", err)
	}

	eng, err := engine.New(cfg, engine.Dependencies{
		Cards:      cardCatalog,
		Decks:      cardCatalog,
		Characters: cardCatalog,
		Skills:     skill.DefaultSkills,
		Clock:      clock.FixedClock{},
		Sink:       event.NoopSink{},
	})
	if err != nil {
		return fmt.Errorf("initialize match: %w", err)
	}

	logger := replaylog.NewTextLogger(os.Stdout)
	replaylog.Attach(eng.Bus(), logger)

	return driveInputs(eng, record.Inputs)
}

// driveInputs pumps eng.Next() and feeds it record's inputs in order,
// failing with INVALID_CHOICE_SEQUENCE if the stream runs dry while the
// engine still expects input, or if any input is left over once the match
// finishes (spec.md §6 error taxonomy).
func driveInputs(eng *engine.Engine, inputs []replaylog.InputEvent) error {
	idx := 0
	next := func() (replaylog.InputEvent, bool) {
		if idx >= len(inputs) {
			return replaylog.InputEvent{}, false
		}
		in := inputs[idx]
		idx++
		return in, true
	}

	for {
		outcome, err := eng.Next()
		if err != nil {
			return fmt.Errorf("resolve: %w", err)
		}
		if outcome.Finished {
			break
		}

		if outcome.PendingChoice != nil {
			in, ok := next()
			if !ok || in.Kind != replaylog.InputChoice || in.Choice == nil {
				return fmt.Errorf("%s: expected a recorded choice at input %d", engine.ErrInvalidChoiceSequence, idx)
			}
			if err := eng.Submit(*in.Choice); err != nil {
				return fmt.Errorf("submit recorded choice: %w", err)
			}
			continue
		}

		if outcome.AwaitingPlay {
			in, ok := next()
			if !ok {
				return fmt.Errorf("%s: expected a recorded Play action at input %d", engine.ErrInvalidChoiceSequence, idx)
			}
			switch in.Kind {
			case replaylog.InputUseCard:
				if err := eng.UseCard(in.Seat, in.CardID, in.Targets); err != nil {
					return fmt.Errorf("replay useCard: %w", err)
				}
			case replaylog.InputEndPlayPhase:
				if err := eng.EndPlayPhase(in.Seat); err != nil {
					return fmt.Errorf("replay endPlayPhase: %w", err)
				}
			default:
				return fmt.Errorf("%s: input %d is not a Play action", engine.ErrInvalidChoiceSequence, idx-1)
			}
			continue
		}
	}

	if idx < len(inputs) {
		return fmt.Errorf("%s: %d input(s) left unconsumed after the match finished", engine.ErrInvalidChoiceSequence, len(inputs)-idx)
	}
	return nil
}
