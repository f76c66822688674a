// Package stats implements the player's health, mana, progression, and gold.
package stats

import "github.com/cory-johannsen/rpgcore/internal/game/event"

// Per-level growth applied on every level-up.
const (
	LevelHealthGain  = 10
	LevelManaGain    = 5
	LevelAttackGain  = 2
	LevelDefenseGain = 1
)

// Base holds the starting values of a Block.
type Base struct {
	MaxHealth             int `mapstructure:"max_health" yaml:"max_health"`
	MaxMana               int `mapstructure:"max_mana" yaml:"max_mana"`
	Level                 int `mapstructure:"level" yaml:"level"`
	Experience            int `mapstructure:"experience" yaml:"experience"`
	ExperienceToNextLevel int `mapstructure:"experience_to_next_level" yaml:"experience_to_next_level"`
	Attack                int `mapstructure:"attack" yaml:"attack"`
	Defense               int `mapstructure:"defense" yaml:"defense"`
	Gold                  int `mapstructure:"gold" yaml:"gold"`
}

// DefaultBase returns the stock starting stats.
func DefaultBase() Base {
	return Base{
		MaxHealth:             100,
		MaxMana:               50,
		Level:                 1,
		Experience:            0,
		ExperienceToNextLevel: 100,
		Attack:                10,
		Defense:               5,
		Gold:                  0,
	}
}

// Meter is a current/max pair carried by health and mana notifications.
type Meter struct {
	Current int
	Max     int
}

// Block is the mutable stat aggregate for one entity.
//
// Invariants: 0 <= currentHealth <= maxHealth, 0 <= currentMana <= maxMana,
// level >= 1, experience >= 0, experienceToNextLevel > 0, gold >= 0.
type Block struct {
	base Base

	maxHealth             int
	currentHealth         int
	maxMana               int
	currentMana           int
	level                 int
	experience            int
	experienceToNextLevel int
	attack                int
	defense               int
	gold                  int

	HealthChanged event.Feed[Meter]
	ManaChanged   event.Feed[Meter]
	LevelUp       event.Feed[int]
	GoldChanged   event.Feed[int]
	Death         event.Feed[struct{}]
}

// New returns a Block initialised from base with full health and mana.
//
// Precondition: base.MaxHealth >= 1, base.Level >= 1, base.ExperienceToNextLevel >= 1.
// Postcondition: CurrentHealth() == MaxHealth() and CurrentMana() == MaxMana().
func New(base Base) *Block {
	b := &Block{base: base}
	b.reset()
	return b
}

func (b *Block) reset() {
	b.maxHealth = b.base.MaxHealth
	b.currentHealth = b.base.MaxHealth
	b.maxMana = b.base.MaxMana
	b.currentMana = b.base.MaxMana
	b.level = max(b.base.Level, 1)
	b.experience = max(b.base.Experience, 0)
	b.experienceToNextLevel = max(b.base.ExperienceToNextLevel, 1)
	b.attack = b.base.Attack
	b.defense = b.base.Defense
	b.gold = max(b.base.Gold, 0)
}

// TakeDamage applies amount reduced by defense, with a floor of 1.
//
// Postcondition: CurrentHealth() decreases by max(amount-defense, 1), clamped at 0.
// Death fires only when health crosses from above zero to zero.
func (b *Block) TakeDamage(amount int) {
	wasAlive := b.currentHealth > 0
	dmg := max(amount-b.defense, 1)
	b.currentHealth = max(b.currentHealth-dmg, 0)
	b.HealthChanged.Emit(b.healthMeter())
	if wasAlive && b.currentHealth == 0 {
		b.Death.Emit(struct{}{})
	}
}

// Heal restores health up to MaxHealth. Excess is discarded.
func (b *Block) Heal(amount int) {
	if amount <= 0 {
		return
	}
	b.currentHealth = min(b.currentHealth+amount, b.maxHealth)
	b.HealthChanged.Emit(b.healthMeter())
}

// UseMana spends amount if enough mana is available.
//
// Postcondition: on false, state is unchanged.
func (b *Block) UseMana(amount int) bool {
	if amount < 0 || b.currentMana < amount {
		return false
	}
	b.currentMana -= amount
	b.ManaChanged.Emit(b.manaMeter())
	return true
}

// RestoreMana restores mana up to MaxMana.
func (b *Block) RestoreMana(amount int) {
	if amount <= 0 {
		return
	}
	b.currentMana = min(b.currentMana+amount, b.maxMana)
	b.ManaChanged.Emit(b.manaMeter())
}

// GainExperience adds amount and performs as many level-ups as it pays for.
//
// Postcondition: Experience() < ExperienceToNextLevel(). If at least one level
// was gained, current health and mana equal their maxima.
func (b *Block) GainExperience(amount int) {
	if amount <= 0 {
		return
	}
	b.experience += amount
	leveled := false
	for b.experience >= b.experienceToNextLevel {
		b.levelUp()
		leveled = true
		b.LevelUp.Emit(b.level)
	}
	if leveled {
		b.HealthChanged.Emit(b.healthMeter())
		b.ManaChanged.Emit(b.manaMeter())
	}
}

func (b *Block) levelUp() {
	b.experience -= b.experienceToNextLevel
	b.level++
	b.experienceToNextLevel = nextThreshold(b.experienceToNextLevel)
	b.maxHealth += LevelHealthGain
	b.maxMana += LevelManaGain
	b.attack += LevelAttackGain
	b.defense += LevelDefenseGain
	b.currentHealth = b.maxHealth
	b.currentMana = b.maxMana
}

// nextThreshold returns round(n * 1.2) in integer arithmetic.
// n*12 is never an odd multiple of 5, so there is no half-way case to break.
func nextThreshold(n int) int {
	return max((n*12+5)/10, 1)
}

// SetMaxHealth replaces MaxHealth, clamping current health down if needed.
func (b *Block) SetMaxHealth(v int) {
	wasAlive := b.currentHealth > 0
	b.maxHealth = v
	b.currentHealth = max(min(b.currentHealth, b.maxHealth), 0)
	b.HealthChanged.Emit(b.healthMeter())
	if wasAlive && b.currentHealth == 0 {
		b.Death.Emit(struct{}{})
	}
}

// SetMaxMana replaces MaxMana, clamping current mana down if needed.
func (b *Block) SetMaxMana(v int) {
	b.maxMana = v
	b.currentMana = max(min(b.currentMana, b.maxMana), 0)
	b.ManaChanged.Emit(b.manaMeter())
}

// AddGold adds amount to the purse.
func (b *Block) AddGold(amount int) {
	if amount <= 0 {
		return
	}
	b.gold += amount
	b.GoldChanged.Emit(b.gold)
}

// SpendGold removes amount if the purse holds enough.
//
// Postcondition: on false, state is unchanged.
func (b *Block) SpendGold(amount int) bool {
	if amount < 0 || b.gold < amount {
		return false
	}
	b.gold -= amount
	b.GoldChanged.Emit(b.gold)
	return true
}

// Restore refills health and mana to their maxima.
func (b *Block) Restore() {
	b.currentHealth = b.maxHealth
	b.currentMana = b.maxMana
	b.HealthChanged.Emit(b.healthMeter())
	b.ManaChanged.Emit(b.manaMeter())
}

func (b *Block) healthMeter() Meter { return Meter{Current: b.currentHealth, Max: b.maxHealth} }
func (b *Block) manaMeter() Meter   { return Meter{Current: b.currentMana, Max: b.maxMana} }

func (b *Block) CurrentHealth() int         { return b.currentHealth }
func (b *Block) MaxHealth() int             { return b.maxHealth }
func (b *Block) CurrentMana() int           { return b.currentMana }
func (b *Block) MaxMana() int               { return b.maxMana }
func (b *Block) Level() int                 { return b.level }
func (b *Block) Experience() int            { return b.experience }
func (b *Block) ExperienceToNextLevel() int { return b.experienceToNextLevel }
func (b *Block) Attack() int                { return b.attack }
func (b *Block) Defense() int               { return b.defense }
func (b *Block) Gold() int                  { return b.gold }

// Alive reports whether current health is above zero.
func (b *Block) Alive() bool { return b.currentHealth > 0 }
