package config

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情
// release 模式返回 fallback；其他模式（或未加载配置）返回 err.Error()
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
