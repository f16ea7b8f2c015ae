package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose  = "verbose"
	FlagConfig   = "config"
	FlagDatabase = "db"

	// task list flags
	FlagRequiresInternet = "requires-internet"
	FlagQuery            = "query"
	FlagJSON             = "json"

	// task export / config init flags
	FlagOutput = "output"
	FlagForce  = "force"
	FlagGlobal = "global"

	// log flags
	FlagCount = "count"
)
