package brewing

// Player is one side of the contest as seen on a single turn.
type Player struct {
	Inventory   Vec4[uint32] `json:"inventory"`
	Score       int          `json:"score"`
	ReadySpells []Spell      `json:"ready_spells"`
	UsedSpells  []Spell      `json:"used_spells"`
}

// NewPlayer builds a player, splitting spells into ready and used lists by
// their castable flag. Input order is kept within each list.
func NewPlayer(inventory Vec4[uint32], score int, spells []Spell) Player {
	p := Player{
		Inventory: inventory,
		Score:     score,
	}
	for _, spell := range spells {
		if spell.Castable {
			p.ReadySpells = append(p.ReadySpells, spell)
		} else {
			p.UsedSpells = append(p.UsedSpells, spell)
		}
	}
	return p
}

// CanBrew reports whether the inventory covers every tier of the recipe cost.
func (p *Player) CanBrew(recipe *Recipe) bool {
	for i := range p.Inventory {
		if p.Inventory[i] < recipe.Ingredients[i] {
			return false
		}
	}
	return true
}

// CanCast reports whether casting the spell keeps every tier non-negative.
func (p *Player) CanCast(spell *Spell) bool {
	for i := range p.Inventory {
		if int32(p.Inventory[i])+spell.Delta[i] < 0 {
			return false
		}
	}
	return true
}

// RequiredIngredients returns cost - inventory per tier. Positive values are
// a shortfall, zero or negative values mean the tier is already covered.
func (p *Player) RequiredIngredients(cost Vec4[int32]) Vec4[int32] {
	return cost.Sub(Signed(p.Inventory))
}

// MissingIngredients returns the positive shortfall against a recipe.
// The second result is false when nothing is missing.
func (p *Player) MissingIngredients(recipe *Recipe) (Vec4[uint32], bool) {
	var missing Vec4[uint32]
	anyMissing := false
	for i := range p.Inventory {
		if recipe.Ingredients[i] > p.Inventory[i] {
			missing[i] = recipe.Ingredients[i] - p.Inventory[i]
			anyMissing = true
		}
	}
	return missing, anyMissing
}

// Spells returns ready spells followed by used spells.
func (p *Player) Spells() []Spell {
	out := make([]Spell, 0, len(p.ReadySpells)+len(p.UsedSpells))
	out = append(out, p.ReadySpells...)
	return append(out, p.UsedSpells...)
}
