package main

import (
	"context"
	"errors"

	"github.com/pitabwire/util"

	"github.com/greendam/greenframe"
	"github.com/greendam/greenframe/internal/hello"
	"github.com/greendam/greenframe/version"
)

const serviceName = "greendam"

func main() {
	ctx, svc := greenframe.NewService(
		greenframe.WithName(serviceName),
		greenframe.WithVersion(version.String()),
	)
	log := svc.Log(ctx)

	controller := hello.NewController(svc.Boundary(), svc.Localization())
	svc.Init(ctx, greenframe.WithHTTPHandler(controller.Routes()))

	err := svc.Run(ctx, "")
	if err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("service stopped with error")
	}
	util.Log(ctx).Info("service stopped")
}
