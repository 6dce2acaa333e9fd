package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ CredentialProvider = StaticCredential("")
	_ CredentialProvider = CredentialFunc(nil)
	_ CredentialProvider = EnvCredential("")
	_ MetricsRecorder    = NopMetricsRecorder{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
