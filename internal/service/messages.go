package service

// User-visible outcome messages. These strings are part of the product
// contract and must not be reworded.
const (
	MsgLoginFailed        = "Incorrect, please try again."
	MsgPasswordMismatch   = "Supplied passwords not equal."
	MsgUsernameTaken      = "Pick another Username."
	MsgRemoteUnavailable  = "Cannot connect to remote database."
	MsgTryAgain           = "There was a problem, please try again."
	MsgSuccess            = "Success"
	MsgRegistrationFailed = "Failure, please try again."

	// MsgOutOfStockFormat interpolates the item title when a decrement
	// drains the last unit.
	MsgOutOfStockFormat = "You are out of: %s"
)
