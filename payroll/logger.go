package payroll

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "payroll")
