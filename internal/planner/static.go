package planner

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"skustudio/internal/domain"
)

// StaticPlanner derives a plausible scene purely from keyword inspection of
// the brief. It is the guaranteed-available fallback behind the remote
// planner, so the pipeline stays fully exercisable offline.
type StaticPlanner struct{}

func NewStaticPlanner() *StaticPlanner {
	return &StaticPlanner{}
}

type cultureTheme struct {
	keyword           string
	shortDescription  string
	backgroundSetting string
	colorScheme       string
	objects           []domain.SceneObject
}

// cultureThemes are matched case-insensitively as substrings of the brief, in
// order, first hit wins. Each entry carries set dressing culturally
// associated with the keyword.
var cultureThemes = []cultureTheme{
	{
		keyword:           "japan",
		shortDescription:  "Minimalist Japanese interior",
		backgroundSetting: "Tatami room with Shoji screens",
		colorScheme:       "Soft Beige, Bamboo Green",
		objects: []domain.SceneObject{
			{Name: "Bonsai Tree", Location: domain.LocationBackground},
			{Name: "Tea Cup", Location: domain.LocationForeground},
		},
	},
	{
		keyword:           "france",
		shortDescription:  "Parisian cafe terrace",
		backgroundSetting: "Bistro table outside a Haussmann facade",
		colorScheme:       "Cream, Wrought-Iron Black",
		objects: []domain.SceneObject{
			{Name: "Croissant", Location: domain.LocationForeground},
			{Name: "Espresso Cup", Location: domain.LocationRight},
		},
	},
	{
		keyword:           "italy",
		shortDescription:  "Sunlit Italian courtyard",
		backgroundSetting: "Terracotta courtyard with climbing vines",
		colorScheme:       "Terracotta, Olive Green",
		objects: []domain.SceneObject{
			{Name: "Lemon Branch", Location: domain.LocationLeft},
			{Name: "Ceramic Pitcher", Location: domain.LocationBackground},
		},
	},
	{
		keyword:           "morocco",
		shortDescription:  "Moroccan riad interior",
		backgroundSetting: "Zellige-tiled alcove with carved plaster",
		colorScheme:       "Saffron, Deep Blue",
		objects: []domain.SceneObject{
			{Name: "Brass Lantern", Location: domain.LocationBackground},
			{Name: "Patterned Rug", Location: domain.LocationForeground},
		},
	},
}

// Plan never fails; any brief yields a complete schema.
func (s *StaticPlanner) Plan(ctx context.Context, brief, productName string) (*domain.SceneSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lower := strings.ToLower(brief)
	theme, hasTheme := matchCulture(lower)
	isSummer := strings.Contains(lower, "summer")
	isWinter := strings.Contains(lower, "winter")

	titler := cases.Title(language.Und)
	product := strings.TrimSpace(productName)
	if product == "" {
		product = "product"
	}

	shortDescription := fmt.Sprintf("Professional studio setting for %s", titler.String(product))
	backgroundSetting := "Abstract gradient background"
	colorScheme := "Neutral Greys, Wood"
	objects := []domain.SceneObject{{Name: "Shadow pattern", Location: domain.LocationBackground}}
	if hasTheme {
		shortDescription = theme.shortDescription
		backgroundSetting = theme.backgroundSetting
		colorScheme = theme.colorScheme
		objects = append([]domain.SceneObject(nil), theme.objects...)
	}

	conditions := domain.ConditionSoft
	mood := "Calm, Serene"
	switch {
	case isSummer:
		conditions = domain.ConditionSunlight
		mood = "Bright, Energetic"
		if !hasTheme {
			colorScheme = "Warm Gold, Blue"
		}
	case isWinter:
		conditions = domain.ConditionCool
		mood = "Crisp, Quiet"
		if !hasTheme {
			colorScheme = "Ice Blue, Silver"
		}
	}

	direction := domain.LightLeft
	if strings.Contains(lower, "from right") || strings.Contains(lower, "right side") {
		direction = domain.LightRight
	}

	schema := &domain.SceneSchema{
		Prompt: strings.TrimSpace(brief),
		StructuredPrompt: domain.StructuredPrompt{
			ShortDescription:  shortDescription,
			BackgroundSetting: backgroundSetting,
			Lighting: domain.Lighting{
				Direction:  direction,
				Conditions: conditions,
				Shadows:    "Long, directional",
			},
			Aesthetics: domain.Aesthetics{
				MoodAtmosphere: mood,
				ColorScheme:    colorScheme,
				Composition:    "Rule of thirds",
			},
			Photographic: domain.Photographic{
				CameraAngle:     domain.AngleEyeLevel,
				LensFocalLength: "50mm",
				DepthOfField:    domain.DepthShallow,
			},
			Objects: objects,
		},
		AspectRatio: "4:5",
	}
	schema.Normalize()
	return schema, nil
}

func matchCulture(lowerBrief string) (cultureTheme, bool) {
	for _, theme := range cultureThemes {
		if strings.Contains(lowerBrief, theme.keyword) {
			return theme, true
		}
	}
	return cultureTheme{}, false
}

var _ Planner = (*StaticPlanner)(nil)
