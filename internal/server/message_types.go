package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeJoin        MessageType = "join"
	MessageTypeAddTable    MessageType = "addTable"
	MessageTypeSit         MessageType = "sit"
	MessageTypeCheckCall   MessageType = "checkCall"
	MessageTypeRaise       MessageType = "raise"
	MessageTypeFold        MessageType = "fold"
	MessageTypePremove     MessageType = "premove"
	MessageTypeStopPremove MessageType = "stopPremove"
	MessageTypeLeave       MessageType = "leave"
	MessageTypeShowCards   MessageType = "showCards"
	MessageTypeGetTable    MessageType = "getTable"
	MessageTypeGetTables   MessageType = "getTables"

	// Replies to the requesting connection
	MessageTypeJoined MessageType = "joined"
	MessageTypeAck    MessageType = "ack"
	MessageTypePlayer MessageType = "player"
	MessageTypeTable  MessageType = "table"
	MessageTypeTables MessageType = "tables"
	MessageTypeError  MessageType = "error"

	// Table events sent to everyone who joined the table
	MessageTypeUpdateTable MessageType = "updateTable"
	MessageTypeTime        MessageType = "time"
	MessageTypeDealCards   MessageType = "dealCards"
	MessageTypeSeated      MessageType = "sit"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
