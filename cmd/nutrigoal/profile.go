package nutrigoal

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
	"github.com/saadjs/nutrigoal/internal/service"
)

var (
	profileAge          int
	profileGender       string
	profilePregnant     bool
	profileLactating    bool
	profileWeight       float64
	profileHeight       float64
	profileActivity     string
	profileBodyFat      float64
	profileClearBodyFat bool
	profileGoalRate     float64
	profileJSON         bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the biometric profile goals are derived from",
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update a profile; unset flags keep their stored values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			in := service.ProfileInput{UserID: userFlag}
			if userFlag != "" {
				existing, err := service.GetProfile(sqldb, userFlag)
				if err != nil {
					return err
				}
				if existing != nil {
					in = service.ProfileInputFrom(*existing)
				}
			}
			flags := cmd.Flags()
			if flags.Changed("age") {
				age := profileAge
				in.Age = &age
			}
			if flags.Changed("gender") {
				in.Gender = model.Gender(profileGender)
			}
			if flags.Changed("pregnant") {
				in.Pregnant = profilePregnant
			}
			if flags.Changed("lactating") {
				in.Lactating = profileLactating
			}
			if flags.Changed("weight") {
				in.WeightKg = profileWeight
			}
			if flags.Changed("height") {
				in.HeightCm = profileHeight
			}
			if flags.Changed("activity") {
				in.ActivityLevel = model.ActivityLevel(profileActivity)
			}
			if flags.Changed("body-fat") {
				bf := profileBodyFat
				in.BodyFatPct = &bf
			}
			if profileClearBodyFat {
				in.BodyFatPct = nil
			}
			if flags.Changed("goal-rate") {
				in.GoalRate = profileGoalRate
			}

			id, err := service.SaveProfile(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s\n", id)
			return nil
		})
	},
}

type profileView struct {
	Profile model.Profile      `json:"profile"`
	Energy  *nutrition.Energy  `json:"energy,omitempty"`
	Mode    nutrition.GoalMode `json:"mode"`
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a profile with its energy estimate",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			userID, err := resolveUser(sqldb)
			if err != nil {
				return err
			}
			p, err := service.RequireProfile(sqldb, userID)
			if err != nil {
				return err
			}
			view := profileView{Profile: *p, Mode: nutrition.ModeFor(p.GoalRate)}
			if e, ok := nutrition.EstimateEnergy(*p); ok {
				view.Energy = &e
			}
			if profileJSON {
				return printJSON(cmd.OutOrStdout(), "profile", view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User: %s\n", p.UserID)
			age := "unknown"
			if p.Age != nil {
				age = fmt.Sprintf("%d", *p.Age)
			}
			gender := string(p.Gender)
			if gender == "" {
				gender = "unknown"
			}
			fmt.Fprintf(out, "Age: %s | Gender: %s", age, gender)
			if p.Pregnant {
				fmt.Fprint(out, " | pregnant")
			}
			if p.Lactating {
				fmt.Fprint(out, " | lactating")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Weight: %s kg | Height: %s cm | Activity: %s\n", formatAmount(p.WeightKg), formatAmount(p.HeightCm), p.ActivityLevel)
			if p.BodyFatPct != nil {
				fmt.Fprintf(out, "Body fat: %s%%\n", formatAmount(*p.BodyFatPct))
			}
			fmt.Fprintf(out, "Goal rate: %+.1f (%s)\n", p.GoalRate, view.Mode)
			if view.Energy == nil {
				fmt.Fprintln(out, "Energy: not enough data (need weight plus body fat, or age, gender and height)")
				return nil
			}
			e := view.Energy
			fmt.Fprintf(out, "BMR: %d kcal (%s) | TDEE: %d kcal (x%.3g)\n", e.BMR, e.Formula, e.TDEE, e.Multiplier)
			fmt.Fprintf(out, "Calorie goal: %d kcal (floor %d)\n", e.CalorieGoal, e.Floor)
			fmt.Fprintf(out, "Min goal rate: %.1f\n", e.MinGoalRate)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd, profileShowCmd)

	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "Age in years")
	profileSetCmd.Flags().StringVar(&profileGender, "gender", "", "male, female or other")
	profileSetCmd.Flags().BoolVar(&profilePregnant, "pregnant", false, "Pregnant")
	profileSetCmd.Flags().BoolVar(&profileLactating, "lactating", false, "Lactating")
	profileSetCmd.Flags().Float64Var(&profileWeight, "weight", 0, "Weight in kg")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height", 0, "Height in cm")
	profileSetCmd.Flags().StringVar(&profileActivity, "activity", "", "sedentary, light, moderate, active, very_active or athlete")
	profileSetCmd.Flags().Float64Var(&profileBodyFat, "body-fat", 0, "Body fat percentage (enables the lean-mass formula)")
	profileSetCmd.Flags().BoolVar(&profileClearBodyFat, "clear-body-fat", false, "Forget the stored body fat percentage")
	profileSetCmd.Flags().Float64Var(&profileGoalRate, "goal-rate", 0, "Goal rate from -2 to 2 in steps of 500 kcal/day")

	profileShowCmd.Flags().BoolVar(&profileJSON, "json", false, "Output JSON")
}
