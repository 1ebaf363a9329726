package protocol

// MessageID is the wire discriminator of a message.
type MessageID uint8

// ModuleID selects a net module inside an IDNetModule frame.
type ModuleID uint16

const (
	IDConnectRequest   MessageID = 1
	IDDisconnect       MessageID = 2
	IDPlayerSlot       MessageID = 3
	IDTileModify       MessageID = 17
	IDItemOwner        MessageID = 22
	IDProjectileUpdate MessageID = 27
	IDPlayerBuffs      MessageID = 50
	IDChestName        MessageID = 69
	IDNetModule        MessageID = 82
	IDSmartText        MessageID = 107
	IDPlayerHurt       MessageID = 117
	IDPlayerDeath      MessageID = 118
)

const (
	ModuleText ModuleID = 1
	ModulePing ModuleID = 2
)
