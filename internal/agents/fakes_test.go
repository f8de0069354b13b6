package agents

import (
	"context"
	"fmt"

	"orquestra/internal/adapters/ai"
	"orquestra/internal/capabilities"
)

type engineCall struct {
	role     AgentType
	messages []ai.Message
	tools    []ai.ToolDefinition
}

type scriptedReply struct {
	message ai.Message
	usage   ai.Usage
	err     error
}

// fakeEngine replays scripted replies per pipeline role and records every
// request it sees.
type fakeEngine struct {
	replies map[AgentType][]scriptedReply
	calls   []engineCall
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{replies: make(map[AgentType][]scriptedReply)}
}

func (f *fakeEngine) queue(role AgentType, reply scriptedReply) {
	f.replies[role] = append(f.replies[role], reply)
}

func (f *fakeEngine) queueText(role AgentType, text string) {
	f.queue(role, scriptedReply{
		message: ai.Message{Role: ai.RoleAssistant, Content: text},
		usage:   ai.Usage{PromptTokens: 100, CompletionTokens: 40, TotalTokens: 140},
	})
}

func (f *fakeEngine) queueToolCalls(role AgentType, calls ...ai.ToolCall) {
	f.queue(role, scriptedReply{
		message: ai.Message{Role: ai.RoleAssistant, ToolCalls: calls},
		usage:   ai.Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
	})
}

func (f *fakeEngine) queueError(role AgentType, err error) {
	f.queue(role, scriptedReply{err: err})
}

func (f *fakeEngine) Complete(_ context.Context, role AgentType, messages []ai.Message, tools []ai.ToolDefinition) (ai.Message, ai.Usage, error) {
	f.calls = append(f.calls, engineCall{role: role, messages: messages, tools: tools})

	queue := f.replies[role]
	if len(queue) == 0 {
		return ai.Message{}, ai.Usage{}, fmt.Errorf("no scripted reply left for %s", role)
	}
	reply := queue[0]
	f.replies[role] = queue[1:]

	if reply.err != nil {
		return ai.Message{}, ai.Usage{}, reply.err
	}
	return reply.message, reply.usage, nil
}

func (f *fakeEngine) callsFor(role AgentType) []engineCall {
	var out []engineCall
	for _, c := range f.calls {
		if c.role == role {
			out = append(out, c)
		}
	}
	return out
}

func toolCall(id, name, args string) ai.ToolCall {
	return ai.ToolCall{
		ID:   id,
		Type: "function",
		Function: ai.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

func stubRegistry(handlers map[string]capabilities.HandlerFunc) *capabilities.Registry {
	registry := capabilities.NewRegistry()
	for name, handler := range handlers {
		registry.Register(name, capabilities.New(name, "stub capability", handler))
	}
	return registry
}

type recordingSink struct {
	events []StepEvent
}

func (r *recordingSink) OnStep(event StepEvent) {
	r.events = append(r.events, event)
}

type panickySink struct{}

func (panickySink) OnStep(StepEvent) {
	panic("sink exploded")
}
