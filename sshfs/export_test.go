package sshfs

var (
	Quote     = quote
	SniffErr  = sniffErr
	ParseStat = parseStat
)
