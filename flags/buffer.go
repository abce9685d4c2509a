package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// Cursor flags for the commands that walk a buffer with a ReadIter.
var (
	ChunkFlag = cli.IntFlag{
		Name:  "chunk",
		Usage: "Bytes per direct read",
		Value: 16,
	}
	SkipFlag = cli.IntFlag{
		Name:  "skip",
		Usage: "Bytes to skip before reading",
	}
	CountFlag = cli.IntFlag{
		Name:  "count",
		Usage: "Bytes to transfer (-1 = everything left)",
		Value: -1,
	}
	WordFlag = cli.IntFlag{
		Name:  "word",
		Usage: "Decode big-endian words of 4 or 8 bytes instead of hex chunks (0 = off)",
	}
	FrameFlag = cli.IntFlag{
		Name:  "frame",
		Usage: "Prefix the output with its length as a 4 or 8 byte big-endian integer (0 = off)",
	}
)

// DumpFlags are the flags of the dump command.
func DumpFlags() []cli.Flag {
	return []cli.Flag{ChunkFlag, SkipFlag, WordFlag}
}

// CopyFlags are the flags of the copy command.
func CopyFlags() []cli.Flag {
	return []cli.Flag{SkipFlag, CountFlag, FrameFlag}
}
