package state

// StateMachine is stateless, it only answers which transitions are allowed.
type StateMachine struct {
	States      []State      `json:"states"`
	Transitions []Transition `json:"transitions"`
}

type State struct {
	Name string `json:"name"`
}

type Transition struct {
	Name string `json:"name"`
	From State  `json:"from"`
	To   State  `json:"to"`
}

var (
	Draft      = State{Name: "draft"}
	InProgress = State{Name: "in_progress"}
	Completed  = State{Name: "completed"}
)

//             draft        in_progress   completed
// draft         -            V (start)     V (finalize)
// in_progress   V (suspend)  -             V (finalize)
// completed     X            V (reopen)    -
var StudyLifecycle = NewStateMachine(
	[]State{Draft, InProgress, Completed},
	[]Transition{
		{Name: "start", From: Draft, To: InProgress},
		{Name: "finalize", From: Draft, To: Completed},
		{Name: "suspend", From: InProgress, To: Draft},
		{Name: "finalize", From: InProgress, To: Completed},
		{Name: "reopen", From: Completed, To: InProgress},
	})

func NewStateMachine(states []State, transitions []Transition) *StateMachine {
	return &StateMachine{States: states, Transitions: transitions}
}

func (sm *StateMachine) FindState(name string) (State, bool) {
	for _, s := range sm.States {
		if s.Name == name {
			return s, true
		}
	}
	return State{}, false
}

// AvailableTransitions filters by from and to state names, an empty name matches any state.
func (sm *StateMachine) AvailableTransitions(fromState string, toState string) []Transition {
	r := []Transition{}
	for _, transition := range sm.Transitions {
		if (fromState == "" || fromState == transition.From.Name) && (toState == "" || toState == transition.To.Name) {
			r = append(r, transition)
		}
	}
	return r
}

func (sm *StateMachine) CanTransit(fromState, toState string) bool {
	return len(sm.AvailableTransitions(fromState, toState)) > 0
}
