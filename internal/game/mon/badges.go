package mon

// BadgeList tracks which gym badges have been earned. Each generation has its
// own badge set and boost semantics, so the concrete type lives with the
// generation rules; the route engine only needs this interface.
//
// Implementations are immutable: AwardBadge returns a new list.
type BadgeList interface {
	// AwardBadge returns the list after defeating the named trainer. If the
	// trainer awards no badge, the receiver is returned unchanged.
	AwardBadge(trainerName string) BadgeList

	AttackBoosted() bool
	DefenseBoosted() bool
	SpeedBoosted() bool
	SpecialAttackBoosted() bool
	SpecialDefenseBoosted() bool

	Equals(other BadgeList) bool
}
