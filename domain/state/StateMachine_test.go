package state_test

import (
	"smartmethods/domain/state"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("StateMachine", func() {
	var (
		stateMachine *state.StateMachine
	)

	BeforeEach(func() {
		stateMachine = state.StudyLifecycle
	})

	Describe("FindState", func() {
		It("should find known states only", func() {
			s, found := stateMachine.FindState("in_progress")
			Expect(found).To(BeTrue())
			Expect(s).To(Equal(state.InProgress))

			_, found = stateMachine.FindState("archived")
			Expect(found).To(BeFalse())
		})
	})

	Describe("AvailableTransitions", func() {
		It("should return availableTransitions as expected", func() {
			Ω(stateMachine.AvailableTransitions("draft", "")).Should(Equal([]state.Transition{
				{Name: "start", From: state.Draft, To: state.InProgress},
				{Name: "finalize", From: state.Draft, To: state.Completed},
			}))

			Ω(stateMachine.AvailableTransitions("", "completed")).Should(Equal([]state.Transition{
				{Name: "finalize", From: state.Draft, To: state.Completed},
				{Name: "finalize", From: state.InProgress, To: state.Completed},
			}))

			Ω(stateMachine.AvailableTransitions("completed", "")).Should(Equal([]state.Transition{
				{Name: "reopen", From: state.Completed, To: state.InProgress},
			}))

			Ω(len(stateMachine.AvailableTransitions("UNKNOWN", ""))).Should(Equal(0))
		})
	})

	Describe("CanTransit", func() {
		It("should forbid going back to draft from completed", func() {
			Expect(stateMachine.CanTransit("completed", "draft")).To(BeFalse())
			Expect(stateMachine.CanTransit("completed", "in_progress")).To(BeTrue())
			Expect(stateMachine.CanTransit("in_progress", "draft")).To(BeTrue())
		})
	})
})
