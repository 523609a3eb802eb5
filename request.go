package cqbus

// Kind classifies a request as a command or a query.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindCommand
	KindQuery
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Void is the result type of commands that produce no meaningful value.
type Void struct{}

// Request is implemented by every message the bus can execute.
// R is the result type the handler produces.
//
// The interface cannot be implemented directly. Embed Command, PureCommand
// or Query in the request struct instead:
//
//	type CreateUser struct {
//		cqbus.Command[UserID]
//		Email string
//	}
type Request[R any] interface {
	resultOf(R)
	requestKind() Kind
}

// Command marks a request that changes state and returns R.
type Command[R any] struct{}

func (Command[R]) resultOf(R)        {}
func (Command[R]) requestKind() Kind { return KindCommand }

// PureCommand marks a command without a result. Execute it with Execute[Void].
type PureCommand = Command[Void]

// Query marks a request that reads state and returns R.
type Query[R any] struct{}

func (Query[R]) resultOf(R)        {}
func (Query[R]) requestKind() Kind { return KindQuery }

type kinded interface {
	requestKind() Kind
}

// KindOf reports whether req is a command or a query.
// Values that embed neither marker report KindUnknown.
func KindOf(req any) Kind {
	if k, ok := req.(kinded); ok {
		return k.requestKind()
	}
	return KindUnknown
}
