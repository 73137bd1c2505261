package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgTermInput
	MsgPlotFormula
	MsgAppShutdown
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgTermInput:
		return "term_input"
	case MsgPlotFormula:
		return "plot_formula"
	case MsgAppShutdown:
		return "app_shutdown"
	default:
		return "unknown"
	}
}
