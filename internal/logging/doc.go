// Package logging builds the zap loggers injected into cleantags
// components.
//
// Components never use a global logger. Each receives a *zap.Logger in
// its constructor and adds its own "component" field; the pipeline adds
// a "run_id" field per run.
//
//	logger, err := logging.New(logging.Options{Level: "debug", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
package logging
