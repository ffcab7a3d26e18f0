// Package content loads and validates authored story content before the
// engine ever sees it. The engine depends on the referential integrity
// checked here and must fail safely, not crash, if malformed content slips
// through.
package content

import (
	"fmt"
	"strings"

	"relic-server/internal/engine"
	"relic-server/internal/models"

	"go.uber.org/zap"
)

// Validator checks a story once at load time. Hard violations reject the
// story; authoring smells (inert points, dual-purpose points, choice sets
// without exactly one correct flag) are logged as warnings and left as-is.
type Validator struct {
	logger          *zap.Logger
	defaultBaseline models.Baseline
}

func NewValidator(logger *zap.Logger, defaultBaseline models.Baseline) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultBaseline.Width == 0 || defaultBaseline.Height == 0 {
		defaultBaseline = engine.DefaultBaseline
	}
	return &Validator{
		logger:          logger.Named("ContentValidator"),
		defaultBaseline: defaultBaseline,
	}
}

// Validate verifies the story's invariants, stamps each dialog's kind, and
// fills in the baseline canvas when the content does not carry one. The
// story is mutated in place and must not be shared before validation.
func (v *Validator) Validate(story *models.Story) error {
	log := v.logger.With(zap.String("storyID", story.ID.String()))
	var problems []string

	if story.Baseline.Width == 0 || story.Baseline.Height == 0 {
		story.Baseline = v.defaultBaseline
	}

	if len(story.Scenes) == 0 {
		problems = append(problems, "story has no scenes")
	}

	sceneIDs := make(map[string]bool, len(story.Scenes))
	for i := range story.Scenes {
		sc := &story.Scenes[i]
		if sceneIDs[sc.ID] {
			problems = append(problems, fmt.Sprintf("duplicate scene id %q", sc.ID))
		}
		sceneIDs[sc.ID] = true
	}

	for i := range story.Scenes {
		sc := &story.Scenes[i]
		if len(sc.Dialogs) == 0 {
			problems = append(problems, fmt.Sprintf("scene %q has no dialogs", sc.ID))
		}
		problems = append(problems, v.checkDialogs(log, sc)...)
		problems = append(problems, v.checkPoints(log, sc, sceneIDs)...)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", models.ErrInvalidStoryContent, strings.Join(problems, "; "))
	}
	return nil
}

func (v *Validator) checkDialogs(log *zap.Logger, sc *models.Scene) []string {
	var problems []string
	dialogIDs := make(map[string]bool, len(sc.Dialogs))
	for j := range sc.Dialogs {
		d := &sc.Dialogs[j]
		if dialogIDs[d.ID] {
			problems = append(problems, fmt.Sprintf("scene %q: duplicate dialog id %q", sc.ID, d.ID))
		}
		dialogIDs[d.ID] = true

		// A dialog carries at most one interactive payload.
		if len(d.Choices) > 0 && d.Quiz != nil {
			problems = append(problems, fmt.Sprintf("scene %q: dialog %q has both choices and quiz", sc.ID, d.ID))
			continue
		}

		// Classify once here so runtime code never duck-types the payload.
		switch {
		case len(d.Choices) > 0:
			d.Kind = models.DialogKindChoice
			v.checkChoiceFlags(log, sc.ID, d)
		case d.Quiz != nil:
			d.Kind = models.DialogKindQuiz
			if !anyCorrect(d.Quiz.Options) {
				problems = append(problems, fmt.Sprintf("scene %q: quiz dialog %q has no correct option", sc.ID, d.ID))
			}
		default:
			d.Kind = models.DialogKindPlain
		}
	}
	return problems
}

// checkChoiceFlags warns on choice sets without exactly one correct option.
// The single-selection scoring assumes one; content marking several is
// undefined behavior we surface to authors instead of silently fixing.
func (v *Validator) checkChoiceFlags(log *zap.Logger, sceneID string, d *models.Dialog) {
	correct := 0
	for _, c := range d.Choices {
		if c.Correct {
			correct++
		}
	}
	if correct != 1 {
		log.Warn("Choice dialog does not have exactly one correct option",
			zap.String("sceneID", sceneID),
			zap.String("dialogID", d.ID),
			zap.Int("correctCount", correct),
		)
	}
}

func (v *Validator) checkPoints(log *zap.Logger, sc *models.Scene, sceneIDs map[string]bool) []string {
	var problems []string
	for k := range sc.Points {
		p := &sc.Points[k]
		switch {
		case p.NextScene != "" && p.TriggerDialog != "":
			// Scene transition wins at runtime; authors should not
			// produce dual-purpose points.
			log.Warn("Interaction point sets both nextScene and triggerDialog",
				zap.String("sceneID", sc.ID),
				zap.String("pointID", p.ID),
			)
		case p.NextScene == "" && p.TriggerDialog == "":
			log.Warn("Inert interaction point (neither nextScene nor triggerDialog)",
				zap.String("sceneID", sc.ID),
				zap.String("pointID", p.ID),
			)
		}
		if p.NextScene != "" && !sceneIDs[p.NextScene] {
			problems = append(problems, fmt.Sprintf("scene %q: point %q references unknown scene %q", sc.ID, p.ID, p.NextScene))
		}
		if p.TriggerDialog != "" && sc.DialogByID(p.TriggerDialog) == nil {
			problems = append(problems, fmt.Sprintf("scene %q: point %q references unknown dialog %q", sc.ID, p.ID, p.TriggerDialog))
		}
	}
	return problems
}

func anyCorrect(opts []models.QuizOption) bool {
	for _, o := range opts {
		if o.Correct {
			return true
		}
	}
	return false
}
