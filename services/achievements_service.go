package services

import (
	"time"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

// Stable ids for the food-photo achievements. The streak service unlocks and
// revokes these against the persisted allow-list, so the ids must never change.
const (
	AchFirstPhoto    = "photo_first"
	AchThreeInADay   = "photo_day_3"
	AchPhotoStreak7  = "photo_streak_7"
	AchPhotoStreak30 = "photo_streak_30"
	AchPhotos50      = "photo_total_50"
	AchPhotos100     = "photo_total_100"
)

type achievementDef struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Category    models.AchievementCategory
	Requirement int
	Counter     func(models.ActivitySnapshot) int
}

func currentStreak(s models.ActivitySnapshot) int   { return s.CurrentStreak }
func daysGoalMet(s models.ActivitySnapshot) int     { return s.DaysGoalMet }
func daysLogged(s models.ActivitySnapshot) int      { return s.DaysLogged }
func totalPhotos(s models.ActivitySnapshot) int     { return s.TotalPhotos }
func photoStreakDays(s models.ActivitySnapshot) int { return s.PhotoStreakDays }
func kgLost(s models.ActivitySnapshot) int          { return int(s.WeightLostKg) }

// achievementCatalog is the full fixed definition set. Order here is the
// order clients render, so keep categories grouped.
var achievementCatalog = []achievementDef{
	// Logging streaks.
	{"streak_3", "En marcha", "Registra tus comidas 3 días seguidos", "🔥", models.CategoryStreak, 3, currentStreak},
	{"streak_7", "Una semana completa", "Registra tus comidas 7 días seguidos", "🔥", models.CategoryStreak, 7, currentStreak},
	{"streak_14", "Dos semanas firmes", "Registra tus comidas 14 días seguidos", "🔥", models.CategoryStreak, 14, currentStreak},
	{"streak_30", "Un mes imparable", "Registra tus comidas 30 días seguidos", "🏆", models.CategoryStreak, 30, currentStreak},
	{"streak_60", "Hábito de acero", "Registra tus comidas 60 días seguidos", "🏆", models.CategoryStreak, 60, currentStreak},
	{"streak_100", "Leyenda de la constancia", "Registra tus comidas 100 días seguidos", "👑", models.CategoryStreak, 100, currentStreak},

	// Weight progress.
	{"weight_1", "Primer kilo", "Pierde tu primer kilogramo", "⚖️", models.CategoryWeight, 1, kgLost},
	{"weight_3", "Tres menos", "Pierde 3 kilogramos", "⚖️", models.CategoryWeight, 3, kgLost},
	{"weight_5", "Cinco abajo", "Pierde 5 kilogramos", "💪", models.CategoryWeight, 5, kgLost},
	{"weight_10", "Transformación", "Pierde 10 kilogramos", "🌟", models.CategoryWeight, 10, kgLost},

	// Goal adherence.
	{"goal_days_5", "Buen comienzo", "Cumple tu meta calórica 5 días", "🎯", models.CategoryAdherence, 5, daysGoalMet},
	{"goal_days_15", "Disciplina", "Cumple tu meta calórica 15 días", "🎯", models.CategoryAdherence, 15, daysGoalMet},
	{"goal_days_30", "Maestría", "Cumple tu meta calórica 30 días", "🥇", models.CategoryAdherence, 30, daysGoalMet},
	{"days_logged_7", "Registro semanal", "Registra actividad 7 días distintos", "📅", models.CategoryAdherence, 7, daysLogged},
	{"days_logged_30", "Registro mensual", "Registra actividad 30 días distintos", "📅", models.CategoryAdherence, 30, daysLogged},

	// Food photos. Gated by the allow-list, see Calculate.
	{AchFirstPhoto, "Primera foto", "Sube tu primera foto de comida", "📸", models.CategoryFoodPhotos, 1, totalPhotos},
	{AchThreeInADay, "Día completo", "Sube 3 fotos de comida en un día", "📸", models.CategoryFoodPhotos, 3, func(s models.ActivitySnapshot) int { return s.TodayPhotos }},
	{AchPhotoStreak7, "Semana fotográfica", "Completa 7 días seguidos con 3 fotos", "📷", models.CategoryFoodPhotos, 7, photoStreakDays},
	{AchPhotoStreak30, "Mes fotográfico", "Completa 30 días seguidos con 3 fotos", "🎞️", models.CategoryFoodPhotos, 30, photoStreakDays},
	{AchPhotos50, "Coleccionista", "Sube 50 fotos de comida en total", "🖼️", models.CategoryFoodPhotos, 50, totalPhotos},
	{AchPhotos100, "Archivo completo", "Sube 100 fotos de comida en total", "🖼️", models.CategoryFoodPhotos, 100, totalPhotos},

	// Social.
	{"social_first_post", "Primera publicación", "Comparte tu primera publicación", "💬", models.CategorySocial, 1, func(s models.ActivitySnapshot) int { return s.PostsCreated }},
	{"social_posts_10", "Voz activa", "Comparte 10 publicaciones", "💬", models.CategorySocial, 10, func(s models.ActivitySnapshot) int { return s.PostsCreated }},
	{"social_followers_10", "Círculo cercano", "Consigue 10 seguidores", "👥", models.CategorySocial, 10, func(s models.ActivitySnapshot) int { return s.Followers }},
	{"social_followers_50", "Comunidad", "Consigue 50 seguidores", "👥", models.CategorySocial, 50, func(s models.ActivitySnapshot) int { return s.Followers }},

	// Workouts.
	{"workout_first", "Primer entrenamiento", "Completa tu primer entrenamiento", "🏋️", models.CategoryWorkout, 1, func(s models.ActivitySnapshot) int { return s.WorkoutSessions }},
	{"workout_10", "Rutina establecida", "Completa 10 entrenamientos", "🏋️", models.CategoryWorkout, 10, func(s models.ActivitySnapshot) int { return s.WorkoutSessions }},
	{"workout_minutes_300", "300 minutos", "Acumula 300 minutos de ejercicio", "⏱️", models.CategoryWorkout, 300, func(s models.ActivitySnapshot) int { return s.WorkoutMinutes }},

	// Milestones.
	{"meals_10", "Diez comidas", "Registra 10 comidas", "🍽️", models.CategoryMilestone, 10, func(s models.ActivitySnapshot) int { return s.MealsLogged }},
	{"meals_100", "Cien comidas", "Registra 100 comidas", "🍽️", models.CategoryMilestone, 100, func(s models.ActivitySnapshot) int { return s.MealsLogged }},
	{"scans_25", "Explorador", "Escanea 25 productos", "🔍", models.CategoryMilestone, 25, func(s models.ActivitySnapshot) int { return s.ProductsScanned }},
	{"scans_100", "Detective nutricional", "Escanea 100 productos", "🔍", models.CategoryMilestone, 100, func(s models.ActivitySnapshot) int { return s.ProductsScanned }},
}

// AchievementsService evaluates the fixed catalog against activity counters.
// Stateless; persistence of the allow-list belongs to the caller.
type AchievementsService struct{}

func NewAchievementsService() *AchievementsService {
	return &AchievementsService{}
}

// Calculate evaluates every catalog entry against the snapshot. Progress is
// capped at the requirement. Food-photo achievements only report unlocked
// when their id is already in the durable allow-list, so a counter that
// transiently crosses a threshold cannot flap an unlock on and off.
func (s *AchievementsService) Calculate(snapshot models.ActivitySnapshot, previouslyUnlocked map[string]bool) []models.Achievement {
	now := time.Now()
	out := make([]models.Achievement, 0, len(achievementCatalog))
	for _, def := range achievementCatalog {
		counter := def.Counter(snapshot)
		progress := counter
		if progress > def.Requirement {
			progress = def.Requirement
		}
		if progress < 0 {
			progress = 0
		}

		unlocked := counter >= def.Requirement
		if def.Category == models.CategoryFoodPhotos {
			unlocked = unlocked && previouslyUnlocked[def.ID]
		}

		a := models.Achievement{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Category:    def.Category,
			Requirement: def.Requirement,
			Progress:    progress,
			MaxProgress: def.Requirement,
			IsUnlocked:  unlocked,
		}
		if unlocked {
			t := now
			a.UnlockedAt = &t
		}
		out = append(out, a)
	}
	return out
}

// Diff returns the achievements in current that are unlocked but were not
// unlocked (or not present) in previous. Drives "new achievement" alerts.
func (s *AchievementsService) Diff(previous, current []models.Achievement) []models.Achievement {
	prevUnlocked := make(map[string]bool, len(previous))
	for _, a := range previous {
		if a.IsUnlocked {
			prevUnlocked[a.ID] = true
		}
	}
	var newly []models.Achievement
	for _, a := range current {
		if a.IsUnlocked && !prevUnlocked[a.ID] {
			newly = append(newly, a)
		}
	}
	return newly
}

// FoodPhotoDefinitions exposes the food-photo subset of the catalog; the
// streak service uses it to decide unlocks without duplicating thresholds.
func FoodPhotoDefinitions() []models.Achievement {
	var out []models.Achievement
	for _, def := range achievementCatalog {
		if def.Category != models.CategoryFoodPhotos {
			continue
		}
		out = append(out, models.Achievement{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Category:    def.Category,
			Requirement: def.Requirement,
			MaxProgress: def.Requirement,
		})
	}
	return out
}
