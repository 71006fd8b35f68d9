package core

// Reason codes reported to clients on rejected commands.
const (
	ErrCodeNoNickname         = "no_nickname"
	ErrCodeNicknameTooShort   = "nickname_too_short"
	ErrCodeNicknameTooLong    = "nickname_too_long"
	ErrCodeNicknameTaken      = "nickname_taken"
	ErrCodeNicknameSet        = "nickname_already_set"
	ErrCodeRoomNameInvalid    = "room_name_invalid"
	ErrCodeRoomExists         = "room_exists"
	ErrCodeCapacityInvalid    = "capacity_invalid"
	ErrCodeAccessCodeRequired = "access_code_required"
	ErrCodeInvalidAccessCode  = "invalid_access_code"
	ErrCodeRoomNotFound       = "room_not_found"
	ErrCodeRoomFull           = "room_full"
	ErrCodeNicknameInUse      = "nickname_in_use"
	ErrCodeNotInRoom          = "not_in_room"
	ErrCodeMessageEmpty       = "message_empty"
	ErrCodeMessageTooLong     = "message_too_long"
	ErrCodeBadRequest         = "bad_request"
	ErrCodeInternal           = "internal_error"
)

// CoreError wraps a machine-readable reason code and a human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
