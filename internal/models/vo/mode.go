package vo

// OperationalMode 是服务当前运行模式，由路由层解析后显式传入。
type OperationalMode int

// 运行模式。
const (
	ModeNormal OperationalMode = iota
	ModeMaintenance
)

// String 返回模式名。
func (m OperationalMode) String() string {
	if m == ModeMaintenance {
		return "maintenance"
	}
	return "normal"
}

// ModeFromFlag 由 maintenance 标志得到运行模式。
func ModeFromFlag(maintenance bool) OperationalMode {
	if maintenance {
		return ModeMaintenance
	}
	return ModeNormal
}
