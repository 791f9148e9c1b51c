package entities

// ResultKind discrimina los estados emitidos por un flujo de sincronizacion
type ResultKind string

const (
	ResultLoading ResultKind = "loading"
	ResultSuccess ResultKind = "success"
	ResultError   ResultKind = "error"
)

// Origin indica de donde salieron los datos de un Success
type Origin string

const (
	OriginCache      Origin = "cache"
	OriginNetwork    Origin = "network"
	OriginStaleCache Origin = "stale_cache"
)

// Result is one event of a sync flow
type Result[T any] struct {
	Kind    ResultKind `json:"kind"`
	Data    T          `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Origin  Origin     `json:"origin,omitempty"`
}

func Loading[T any]() Result[T] {
	return Result[T]{Kind: ResultLoading}
}

func Success[T any](data T, origin Origin) Result[T] {
	return Result[T]{Kind: ResultSuccess, Data: data, Origin: origin}
}

func Failure[T any](message string) Result[T] {
	return Result[T]{Kind: ResultError, Message: message}
}

// IsTerminal reports whether the event can be the last one of a flow
func (r Result[T]) IsTerminal() bool {
	return r.Kind == ResultSuccess || r.Kind == ResultError
}
