package forecast

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "forecast")
