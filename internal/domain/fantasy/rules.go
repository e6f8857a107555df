package fantasy

// Rule keys accepted by WithPointsFromConfig.
const (
	RuleAppearance        = "appearance"      // 1-59 minutes
	RuleFullAppearance    = "full_appearance" // 60+ minutes
	RuleGoalGK            = "goal_gk"
	RuleGoalDEF           = "goal_def"
	RuleGoalMID           = "goal_mid"
	RuleGoalFWD           = "goal_fwd"
	RuleAssist            = "assist"
	RuleCleanSheetGK      = "clean_sheet_gk"
	RuleCleanSheetDEF     = "clean_sheet_def"
	RuleCleanSheetMID     = "clean_sheet_mid"
	RuleCleanSheetFWD     = "clean_sheet_fwd"
	RuleConcededGK        = "conceded_gk"
	RuleConcededDEF       = "conceded_def"
	RuleSave              = "save"
	RulePenaltySaved      = "penalty_saved"
	RulePenaltyMissed     = "penalty_missed"
	RulePenaltyConceded   = "penalty_conceded"
	RuleYellowCard        = "yellow_card"
	RuleRedCard           = "red_card"
	RuleOwnGoal           = "own_goal"
	RuleManOfMatch        = "man_of_match"
	fullAppearanceMinutes = 60
)

func defaultRules() map[string]float64 {
	return map[string]float64{
		RuleAppearance:      1,
		RuleFullAppearance:  2,
		RuleGoalGK:          10,
		RuleGoalDEF:         6,
		RuleGoalMID:         5,
		RuleGoalFWD:         4,
		RuleAssist:          3,
		RuleCleanSheetGK:    4,
		RuleCleanSheetDEF:   4,
		RuleCleanSheetMID:   1,
		RuleCleanSheetFWD:   0,
		RuleConcededGK:      -0.5,
		RuleConcededDEF:     -0.5,
		RuleSave:            1.0 / 3,
		RulePenaltySaved:    5,
		RulePenaltyMissed:   -2,
		RulePenaltyConceded: -1,
		RuleYellowCard:      -1,
		RuleRedCard:         -3,
		RuleOwnGoal:         -2,
		RuleManOfMatch:      3,
	}
}
