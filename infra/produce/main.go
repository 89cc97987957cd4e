package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	ImageService *ImageProduceService
}

func InitProduce(channel *amqp.Channel) *Produce {
	imageService := InitImageProduceService(channel)
	if imageService == nil {
		panic("Failed to initialize Image produce service")
	}

	return &Produce{
		ImageService: imageService,
	}
}
