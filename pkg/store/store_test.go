package store

import (
	"reflect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type counterState struct {
	Count int
}

func counterReducer(state any, action Action) any {
	s := state.(*counterState)
	switch action.Type {
	case "INC":
		return &counterState{Count: s.Count + 1}
	case "SET":
		return &counterState{Count: action.Payload.(int)}
	}
	return s
}

var _ = Describe("Reference store", func() {
	var (
		initial *counterState
		s       *Reference
	)

	BeforeEach(func() {
		initial = &counterState{Count: 1}
		s = New(counterReducer, initial)
	})

	It("should run the reducer with the init action", func() {
		var seen []string
		New(func(state any, a Action) any {
			seen = append(seen, a.Type)
			return state
		}, 0)

		Expect(seen).To(Equal([]string{InitAction}))
	})

	It("should keep the initial state reference when the reducer ignores init", func() {
		Expect(s.GetState()).To(BeIdenticalTo(initial))
	})

	It("should apply actions and return them", func() {
		action := Action{Type: "INC"}

		Expect(s.Dispatch(action)).To(Equal(action))
		Expect(s.GetState().(*counterState).Count).To(Equal(2))
	})

	It("should keep the state reference on no-op actions", func() {
		before := s.GetState()
		s.Dispatch(Action{Type: "NOOP"})

		Expect(s.GetState()).To(BeIdenticalTo(before))
	})

	It("should notify listeners after the state changed", func() {
		var observed []int
		s.Subscribe(func() {
			observed = append(observed, s.GetState().(*counterState).Count)
		})

		s.Dispatch(Action{Type: "INC"})
		s.Dispatch(Action{Type: "SET", Payload: 10})

		Expect(observed).To(Equal([]int{2, 10}))
	})

	It("should notify listeners even when the state did not change", func() {
		calls := 0
		s.Subscribe(func() { calls++ })

		s.Dispatch(Action{Type: "NOOP"})

		Expect(calls).To(Equal(1))
	})

	It("should treat unsubscribe as idempotent", func() {
		calls := 0
		unsubscribe := s.Subscribe(func() { calls++ })
		other := s.Subscribe(func() {})

		unsubscribe()
		unsubscribe()

		Expect(s.ListenerCount()).To(Equal(1))
		s.Dispatch(Action{Type: "INC"})
		Expect(calls).To(Equal(0))

		other()
		Expect(s.ListenerCount()).To(Equal(0))
	})

	It("should skip listeners removed earlier in the same notification", func() {
		var second func()
		secondCalls := 0

		s.Subscribe(func() { second() })
		second = s.Subscribe(func() { secondCalls++ })

		s.Dispatch(Action{Type: "INC"})

		Expect(secondCalls).To(Equal(0))
	})

	It("should not notify listeners added during a notification", func() {
		lateCalls := 0
		s.Subscribe(func() {
			s.Subscribe(func() { lateCalls++ })
		})

		s.Dispatch(Action{Type: "INC"})
		Expect(lateCalls).To(Equal(0))

		s.Dispatch(Action{Type: "INC"})
		Expect(lateCalls).To(Equal(1))
	})

	It("should allow listeners to dispatch", func() {
		s.Subscribe(func() {
			if s.GetState().(*counterState).Count == 2 {
				s.Dispatch(Action{Type: "SET", Payload: 5})
			}
		})

		s.Dispatch(Action{Type: "INC"})

		Expect(s.GetState().(*counterState).Count).To(Equal(5))
	})

	It("should panic when a reducer dispatches", func() {
		var reentrant *Reference
		reentrant = New(func(state any, a Action) any {
			if a.Type == "BAD" {
				reentrant.Dispatch(Action{Type: "INNER"})
			}
			return state
		}, 0)

		Expect(func() { reentrant.Dispatch(Action{Type: "BAD"}) }).To(PanicWith(ContainSubstring("reducers may not dispatch")))
	})
})

var _ = Describe("Combine", func() {
	var reducer Reducer

	BeforeEach(func() {
		reducer = Combine(map[string]Reducer{
			"count": func(state any, a Action) any {
				n, _ := state.(int)
				if a.Type == "INC" {
					return n + 1
				}
				return n
			},
			"label": func(state any, a Action) any {
				if a.Type == "LABEL" {
					return a.Payload
				}
				if state == nil {
					return "none"
				}
				return state
			},
		})
	})

	It("should build the initial state from every slice", func() {
		state := reducer(nil, Action{Type: InitAction}).(map[string]any)

		Expect(state).To(HaveKeyWithValue("count", 0))
		Expect(state).To(HaveKeyWithValue("label", "none"))
	})

	It("should keep the reference when no slice changes", func() {
		state := reducer(nil, Action{Type: InitAction})
		next := reducer(state, Action{Type: "NOOP"})

		Expect(reflect.ValueOf(next).Pointer()).To(Equal(reflect.ValueOf(state).Pointer()))
	})

	It("should copy the state when one slice changes", func() {
		state := reducer(nil, Action{Type: InitAction}).(map[string]any)
		state["extra"] = true

		next := reducer(state, Action{Type: "INC"}).(map[string]any)

		Expect(next).To(HaveKeyWithValue("count", 1))
		Expect(next).To(HaveKeyWithValue("label", "none"))
		Expect(next).To(HaveKeyWithValue("extra", true))
		Expect(state).To(HaveKeyWithValue("count", 0))
		Expect(reflect.ValueOf(next).Pointer()).NotTo(Equal(reflect.ValueOf(state).Pointer()))
	})
})
