package gen1

import "github.com/soloroute/soloroute/internal/game/mon"

// BadgeList is the Generation One badge set. Boulder boosts attack, Thunder
// boosts defense, Soul boosts speed, and Volcano boosts the shared special
// stat. Immutable; AwardBadge returns a new list.
type BadgeList struct {
	rewards map[string]string

	Boulder bool
	Cascade bool
	Thunder bool
	Rainbow bool
	Soul    bool
	Marsh   bool
	Volcano bool
	Earth   bool
}

// NewBadgeList builds an empty badge list over a trainer-to-badge reward
// table keyed by sanitized trainer name.
func NewBadgeList(badgeRewards map[string]string) *BadgeList {
	return &BadgeList{rewards: badgeRewards}
}

// AwardBadge returns the list after defeating the named trainer; if that
// trainer awards no badge, the receiver is returned unchanged.
func (b *BadgeList) AwardBadge(trainerName string) mon.BadgeList {
	result := *b
	switch b.rewards[mon.SanitizeName(trainerName)] {
	case BoulderBadge:
		result.Boulder = true
	case CascadeBadge:
		result.Cascade = true
	case ThunderBadge:
		result.Thunder = true
	case RainbowBadge:
		result.Rainbow = true
	case SoulBadge:
		result.Soul = true
	case MarshBadge:
		result.Marsh = true
	case VolcanoBadge:
		result.Volcano = true
	case EarthBadge:
		result.Earth = true
	default:
		return b
	}
	return &result
}

func (b *BadgeList) AttackBoosted() bool         { return b.Boulder }
func (b *BadgeList) DefenseBoosted() bool        { return b.Thunder }
func (b *BadgeList) SpeedBoosted() bool          { return b.Soul }
func (b *BadgeList) SpecialAttackBoosted() bool  { return b.Volcano }
func (b *BadgeList) SpecialDefenseBoosted() bool { return b.Volcano }

// Equals compares badge flags; the reward table is configuration, not state.
func (b *BadgeList) Equals(other mon.BadgeList) bool {
	o, ok := other.(*BadgeList)
	if !ok {
		return false
	}
	return b.Boulder == o.Boulder &&
		b.Cascade == o.Cascade &&
		b.Thunder == o.Thunder &&
		b.Rainbow == o.Rainbow &&
		b.Soul == o.Soul &&
		b.Marsh == o.Marsh &&
		b.Volcano == o.Volcano &&
		b.Earth == o.Earth
}
