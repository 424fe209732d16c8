package domain

type CommandType string

const (
	CommandConfigure  CommandType = "vb_config"
	CommandManage     CommandType = "vb_manage"
	CommandListConfig CommandType = "vb_list_config"
	CommandClear      CommandType = "vb_clear"
	CommandUnknown    CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

func (c CommandType) IsValid() bool {
	switch c {
	case CommandConfigure, CommandManage, CommandListConfig, CommandClear:
		return true
	default:
		return false
	}
}
