package jurisdiction

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "jurisdiction")
