package prefabs

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Seconds is a duration expressed as fractional seconds in YAML.
type Seconds float64

// D converts to a time.Duration.
func (s Seconds) D() time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

// Tuning holds every gameplay constant. Defaults are embedded; a tuning file
// on disk overrides them and may be hot-reloaded while the game runs.
type Tuning struct {
	// Animation.
	MoveSeconds      Seconds `yaml:"move_seconds"`
	RotationFraction float64 `yaml:"rotation_fraction"`
	ShakeSeconds     Seconds `yaml:"shake_seconds"`
	ShakeIntensity   float64 `yaml:"shake_intensity"`

	// Enemy decision cadence.
	BaseIntervalSeconds  Seconds `yaml:"base_interval_seconds"`
	MaxIntervalReduction Seconds `yaml:"max_interval_reduction_seconds"`
	ReductionPerPoint    Seconds `yaml:"interval_reduction_per_point"`
	IntervalJitter       float64 `yaml:"interval_jitter"`
	DetectionRadius      int     `yaml:"detection_radius"`

	BehaviorMultipliers struct {
		Chase    float64 `yaml:"chase"`
		Patrol   float64 `yaml:"patrol"`
		Random   float64 `yaml:"random"`
		Guard    float64 `yaml:"guard"`
		Scripted float64 `yaml:"scripted"`
	} `yaml:"behavior_multipliers"`

	ArchetypeMultipliers struct {
		Bat    float64 `yaml:"bat"`
		Spider float64 `yaml:"spider"`
		Frog   float64 `yaml:"frog"`
	} `yaml:"archetype_multipliers"`

	// Guard behavior.
	GuardRadius     int     `yaml:"guard_radius"`
	GuardStepChance float64 `yaml:"guard_step_chance"`

	// Spider webs and the freeze they inflict.
	WebChance     float64 `yaml:"web_chance"`
	WebSeconds    Seconds `yaml:"web_seconds"`
	FreezeSeconds Seconds `yaml:"freeze_seconds"`

	// Frog tongue.
	TongueSpeedCells   float64 `yaml:"tongue_speed_cells"`
	TongueMaxRange     int     `yaml:"tongue_max_range"`
	TongueHoldSeconds  Seconds `yaml:"tongue_hold_seconds"`
	TongueCooldownSecs Seconds `yaml:"tongue_cooldown_seconds"`
	TongueAttackChance float64 `yaml:"tongue_attack_chance"`

	// Damage and game over.
	InvulnerableSeconds Seconds `yaml:"invulnerable_seconds"`
	GameOverDelaySecs   Seconds `yaml:"game_over_delay_seconds"`
	StartingLives       int     `yaml:"starting_lives"`

	// Spawning and board lifecycle.
	SpawnBaseSeconds     Seconds `yaml:"spawn_base_seconds"`
	SpawnMinSeconds      Seconds `yaml:"spawn_min_seconds"`
	SpawnReductionPerPt  Seconds `yaml:"spawn_reduction_per_point"`
	TileRespawnDelaySecs Seconds `yaml:"tile_respawn_delay_seconds"`
	TileRetention        int     `yaml:"tile_retention"`
	CorrectRatio         float64 `yaml:"correct_ratio"`
	BaseTarget           int     `yaml:"base_target"`
	DifficultyScoreStep  int     `yaml:"difficulty_score_step"`

	// Optional Tengo step-decision script under prefabs/scripts/.
	AIScript string `yaml:"ai_script"`
}

// Default returns the embedded default tuning.
func Default() *Tuning {
	t, err := unmarshalTuning(defaultTuning)
	if err != nil {
		// The embedded file is part of the build; a parse failure is a
		// programming error.
		panic(fmt.Sprintf("prefabs: embedded tuning: %v", err))
	}
	return t
}

// LoadTuning reads a tuning file over the embedded defaults. An empty path
// returns the defaults.
func LoadTuning(path string) (*Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", path, err)
	}
	t.sanitize()
	return t, nil
}

func unmarshalTuning(data []byte) (*Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	t.sanitize()
	return &t, nil
}

// sanitize clamps values a hand-edited file could push somewhere the
// simulation can't recover from.
func (t *Tuning) sanitize() {
	if t.MoveSeconds <= 0 {
		t.MoveSeconds = 0.15
	}
	if t.RotationFraction <= 0 {
		t.RotationFraction = 0.25
	}
	if t.DetectionRadius < 1 {
		t.DetectionRadius = 1
	}
	if t.GuardRadius < 1 {
		t.GuardRadius = 1
	}
	if t.TongueMaxRange < 1 {
		t.TongueMaxRange = 1
	}
	if t.TongueSpeedCells <= 0 {
		t.TongueSpeedCells = 1
	}
	if t.StartingLives < 1 {
		t.StartingLives = 1
	}
	if t.TileRetention < 1 {
		t.TileRetention = 1
	}
	if t.BaseTarget < 1 {
		t.BaseTarget = 1
	}
	if t.DifficultyScoreStep < 1 {
		t.DifficultyScoreStep = 1
	}
	if t.IntervalJitter < 0 {
		t.IntervalJitter = 0
	}
	if t.CorrectRatio <= 0 || t.CorrectRatio > 1 {
		t.CorrectRatio = 0.35
	}
}

// MoveDuration is the grid-step animation length.
func (t *Tuning) MoveDuration() time.Duration {
	return t.MoveSeconds.D()
}

// RotationDuration is the facing animation length, a fraction of the move.
func (t *Tuning) RotationDuration() time.Duration {
	return time.Duration(float64(t.MoveSeconds.D()) * t.RotationFraction)
}
