package server

// ErrorCode classifies failures reported to a connection. The registry
// itself never raises on missing entities; all classification happens
// here, at the coordinator boundary.
type ErrorCode string

const (
	CodeValidation      ErrorCode = "VALIDATION"
	CodeRoomNotFound    ErrorCode = "ROOM_NOT_FOUND"
	CodeRoomFull        ErrorCode = "ROOM_FULL"
	CodeNicknameTaken   ErrorCode = "NICKNAME_TAKEN"
	CodeNotInRoom       ErrorCode = "NOT_IN_ROOM"
	CodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	CodeJoinFailed      ErrorCode = "JOIN_FAILED"
	CodeMessageFailed   ErrorCode = "MESSAGE_FAILED"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
	CodeDisconnected    ErrorCode = "DISCONNECTED"
	CodeReconnectFailed ErrorCode = "RECONNECT_FAILED"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
)

type ErrorPayload struct {
	Code        ErrorCode `json:"code"`
	Message     string    `json:"message"`
	Details     string    `json:"details,omitempty"`
	Recoverable bool      `json:"recoverable"`
}

func errMsg(code ErrorCode, message string, recoverable bool) *ServerMessage {
	msg := newServerMessage()
	msg.Error = &ErrorPayload{
		Code:        code,
		Message:     message,
		Recoverable: recoverable,
	}
	return msg
}

func ErrValidation(details string) *ServerMessage {
	msg := errMsg(CodeValidation, "invalid request", true)
	msg.Error.Details = details
	return msg
}

func ErrRoomNotFound() *ServerMessage {
	return errMsg(CodeRoomNotFound, "room not found", false)
}

func ErrRoomFull() *ServerMessage {
	return errMsg(CodeRoomFull, "room is full", false)
}

func ErrNicknameTaken() *ServerMessage {
	return errMsg(CodeNicknameTaken, "nickname already taken", true)
}

func ErrNotInRoom() *ServerMessage {
	return errMsg(CodeNotInRoom, "not in a room", true)
}

func ErrUserNotFound() *ServerMessage {
	return errMsg(CodeUserNotFound, "user not found", false)
}

func ErrJoinFailed() *ServerMessage {
	return errMsg(CodeJoinFailed, "failed to join room", true)
}

func ErrMessageFailed() *ServerMessage {
	return errMsg(CodeMessageFailed, "failed to send message", true)
}

func ErrInternalError() *ServerMessage {
	return errMsg(CodeInternalError, "internal server error", false)
}
