package bom

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "bom")
