package main

import "github.com/serialconsole/tokenline"

// demoGrammar builds a small grammar programmatically, for a first run
// where no --grammar directory has been supplied yet.
func demoGrammar() (tokenline.TokenList, tokenline.TokenDict) {
	dict := tokenline.TokenDict{}
	id := 0
	next := func(name string) int {
		id++
		dict[id] = name
		return id
	}

	showVersion := next("version")
	showUptime := next("uptime")
	show := next("show")

	setBaudID := next("baud")
	setBaud := tokenline.TokenEntry{ID: setBaudID, Help: "serial rate in bps", ArgType: tokenline.ArgInteger}
	setNameID := next("name")
	setName := tokenline.TokenEntry{ID: setNameID, Help: "device name", ArgType: tokenline.ArgString}
	set := next("set")

	reboot := next("reboot")

	root := tokenline.TokenList{
		{ID: show, Help: "display status", Sub: tokenline.TokenList{
			{ID: showVersion, Help: "firmware version"},
			{ID: showUptime, Help: "time since boot"},
		}},
		{ID: set, Help: "change a setting", Sub: tokenline.TokenList{
			setBaud,
			setName,
		}},
		{ID: reboot, Help: "restart the device"},
	}
	return root, dict
}
