package ihop

// UniGoalSpec names a single desired fluent value within a MultiGoal:
// fluent[key] should equal Desired.
type UniGoalSpec struct {
	Fluent  string
	Key     any
	Desired any
}

// MultiGoal is a named bundle of desired fluent values. Tag selects
// which multigoal methods apply, the way a task name selects task
// methods; Goals lists the individual fluent/key/value triples that
// must all hold for the multigoal to be considered achieved.
type MultiGoal struct {
	Tag   string
	Goals []UniGoalSpec
}

// NewMultiGoal builds a MultiGoal tagged for method lookup.
func NewMultiGoal(tag string, goals ...UniGoalSpec) MultiGoal {
	return MultiGoal{Tag: tag, Goals: append([]UniGoalSpec(nil), goals...)}
}
