package repo

const (
	tableSettings    = "wallet_settings"
	tableAttachments = "attachments"
	tableMembers     = "members"
)

const (
	colID          = "id"
	colKey         = "key"
	colValue       = "value"
	colUpdatedAt   = "updated_at"
	colPath        = "path"
	colDisplayName = "display_name"
	colLogin       = "login"
	colAttributes  = "attributes"
)
