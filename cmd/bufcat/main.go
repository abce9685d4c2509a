package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-bytebuf/cmd/bufcat/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		logrus.WithError(err).Error("bufcat failed")
		os.Exit(1)
	}
}
