package stats

// Progress is the persisted subset of a Block.
type Progress struct {
	Level         int
	Experience    int
	CurrentHealth int
	CurrentMana   int
	Gold          int
}

// Progress returns the persisted subset of the block's state.
func (b *Block) Progress() Progress {
	return Progress{
		Level:         b.level,
		Experience:    b.experience,
		CurrentHealth: b.currentHealth,
		CurrentMana:   b.currentMana,
		Gold:          b.gold,
	}
}

// ApplyProgress rebuilds the block at p.Level by replaying level growth from
// Base, then sets experience, current meters, and gold from p.
//
// Max health and mana keep any offset already applied on top of the
// level-derived values (equipment bonuses), so loading while items are
// equipped does not drop their bonuses.
//
// Postcondition: Level() == max(p.Level, base level); current meters are
// clamped into [0, max]. LevelUp and Death do not fire; HealthChanged,
// ManaChanged, and GoldChanged fire once each.
func (b *Block) ApplyProgress(p Progress) {
	healthOffset := b.maxHealth - b.derivedMaxHealth(b.level)
	manaOffset := b.maxMana - b.derivedMaxMana(b.level)

	level := max(p.Level, max(b.base.Level, 1))
	toNext := max(b.base.ExperienceToNextLevel, 1)
	for l := max(b.base.Level, 1); l < level; l++ {
		toNext = nextThreshold(toNext)
	}
	gained := level - max(b.base.Level, 1)

	b.level = level
	b.experienceToNextLevel = toNext
	b.experience = min(max(p.Experience, 0), toNext-1)
	b.attack = b.base.Attack + gained*LevelAttackGain
	b.defense = b.base.Defense + gained*LevelDefenseGain
	b.maxHealth = b.derivedMaxHealth(level) + healthOffset
	b.maxMana = b.derivedMaxMana(level) + manaOffset
	b.currentHealth = min(max(p.CurrentHealth, 0), b.maxHealth)
	b.currentMana = min(max(p.CurrentMana, 0), b.maxMana)
	b.gold = max(p.Gold, 0)

	b.HealthChanged.Emit(b.healthMeter())
	b.ManaChanged.Emit(b.manaMeter())
	b.GoldChanged.Emit(b.gold)
}

func (b *Block) derivedMaxHealth(level int) int {
	return b.base.MaxHealth + (level-max(b.base.Level, 1))*LevelHealthGain
}

func (b *Block) derivedMaxMana(level int) int {
	return b.base.MaxMana + (level-max(b.base.Level, 1))*LevelManaGain
}
