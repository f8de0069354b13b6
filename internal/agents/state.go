package agents

import "time"

// Role tags a conversation message with the kind of speaker that produced it.
type Role string

const (
	RoleUser       Role = "user"
	RoleSupervisor Role = "supervisor"
	RoleAnalyst    Role = "analyst"
	RoleManager    Role = "portfolio_manager"
)

// Message is one entry in the shared conversation. Name attributes the entry
// to a concrete agent; downstream consumers identify specialist reports by
// Name, never by position.
type Message struct {
	Role      Role      `json:"role"`
	Name      string    `json:"name,omitempty"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationState accumulates one run's messages and progress. It is created
// once per query, threaded by pointer through every pipeline step, and
// discarded when the run ends. The orchestrator is the single owner; nothing
// here is safe for concurrent use and nothing needs to be.
//
// messages is append-only and never shrinks. selected is fixed once by the
// routing step. cursor advances by exactly one per specialist step and always
// satisfies 0 <= cursor <= len(selected).
type ConversationState struct {
	query      string
	messages   []Message
	selected   []AgentType
	routed     bool
	cursor     int
	completed  map[AgentType]bool
	skipped    map[AgentType]bool
	errorCount int
}

// NewConversationState seeds a fresh state with the user query as the first
// message.
func NewConversationState(query string) *ConversationState {
	s := &ConversationState{
		query:     query,
		completed: make(map[AgentType]bool),
		skipped:   make(map[AgentType]bool),
	}
	s.Append(RoleUser, "", query)
	return s
}

// Query returns the original user query.
func (s *ConversationState) Query() string {
	return s.query
}

// Append adds one message to the conversation.
func (s *ConversationState) Append(role Role, name string, content string) {
	s.messages = append(s.messages, Message{
		Role:      role,
		Name:      name,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// Messages returns a copy of the conversation so far.
func (s *ConversationState) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// MessageCount returns the number of messages appended so far.
func (s *ConversationState) MessageCount() int {
	return len(s.messages)
}

// LastMessage returns the most recent message, if any.
func (s *ConversationState) LastMessage() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// SetSelected fixes the routing decision. It may be called exactly once per
// state; a second call is a programming error in the pipeline, not a runtime
// condition, so it panics.
func (s *ConversationState) SetSelected(agents []AgentType) {
	if s.routed {
		panic("agents: selected agents already set for this conversation")
	}
	s.routed = true
	s.selected = make([]AgentType, len(agents))
	copy(s.selected, agents)
}

// Selected returns the routed agent list in execution order. Duplicates are
// preserved: an agent selected twice runs twice.
func (s *ConversationState) Selected() []AgentType {
	out := make([]AgentType, len(s.selected))
	copy(out, s.selected)
	return out
}

// Cursor returns the index of the next specialist to run.
func (s *ConversationState) Cursor() int {
	return s.cursor
}

// AdvanceCursor moves past the specialist that just finished.
func (s *ConversationState) AdvanceCursor() {
	if s.cursor >= len(s.selected) {
		panic("agents: cursor advanced past the end of the selected agents")
	}
	s.cursor++
}

// MarkCompleted records that an agent produced a report.
func (s *ConversationState) MarkCompleted(agent AgentType) {
	s.completed[agent] = true
}

// MarkSkipped records that an agent was skipped under the skip policy.
func (s *ConversationState) MarkSkipped(agent AgentType) {
	s.skipped[agent] = true
}

// CompletedAgents returns the analysts that produced a report, in canonical
// order regardless of execution order.
func (s *ConversationState) CompletedAgents() []AgentType {
	return filterCanonical(s.completed)
}

// SkippedAgents returns the analysts skipped under the skip policy, in
// canonical order.
func (s *ConversationState) SkippedAgents() []AgentType {
	return filterCanonical(s.skipped)
}

// RecordError counts one recoverable step failure (a failed capability call, a
// skipped specialist). Fatal errors abort the run and are not counted here.
func (s *ConversationState) RecordError() {
	s.errorCount++
}

// ErrorCount returns the number of recoverable failures seen so far.
func (s *ConversationState) ErrorCount() int {
	return s.errorCount
}

func filterCanonical(set map[AgentType]bool) []AgentType {
	out := make([]AgentType, 0, len(set))
	for _, agent := range specialistOrder {
		if set[agent] {
			out = append(out, agent)
		}
	}
	return out
}
