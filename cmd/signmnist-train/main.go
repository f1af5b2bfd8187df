// Command signmnist-train trains a convolutional sign language
// classifier with randomized data augmentation and saves the
// resulting network to a file.
package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anyconv"
	"github.com/unixpickle/anynet/anyff"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/rip"
	"github.com/unixpickle/signmnist"
	"github.com/unixpickle/signmnist/augment"
	"github.com/unixpickle/signmnist/training"
)

func main() {
	var trainingPath string
	var validationPath string
	var outPath string

	var batchSize int
	var numEpochs int
	var stepSize float64

	var rotation float64
	var minScale, maxScale float64
	var brightness, contrast float64

	var validationFrac float64
	var seed int64
	var postTrain bool

	flag.StringVar(&trainingPath, "training", "sign_mnist_train.csv",
		"training CSV file")
	flag.StringVar(&validationPath, "validation", "",
		"validation CSV file (split off training data if empty)")
	flag.StringVar(&outPath, "out", "network_out", "output network file")
	flag.IntVar(&batchSize, "batch", 32, "mini-batch size")
	flag.IntVar(&numEpochs, "epochs", 20, "number of epochs")
	flag.Float64Var(&stepSize, "step", 0.001, "step size")
	flag.Float64Var(&rotation, "rotation", 5, "rotation bound (degrees)")
	flag.Float64Var(&minScale, "minscale", 0.9, "minimum crop area fraction")
	flag.Float64Var(&maxScale, "maxscale", 1, "maximum crop area fraction")
	flag.Float64Var(&brightness, "brightness", 0.2, "brightness jitter bound")
	flag.Float64Var(&contrast, "contrast", 0.5, "contrast jitter bound")
	flag.Float64Var(&validationFrac, "valfrac", 0.1,
		"validation fraction for automatic splits")
	flag.Int64Var(&seed, "seed", 0, "augmentation seed (0 = time-based)")
	flag.BoolVar(&postTrain, "posttrain", false,
		"replace batch norm with affine transforms before saving")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	creator := anyvec32.CurrentCreator()

	pipeline := augment.Pipeline{
		&augment.Rotation{Degrees: rotation},
		&augment.ResizedCrop{MinScale: minScale, MaxScale: maxScale},
		&augment.HFlip{},
		&augment.ColorJitter{Brightness: brightness, Contrast: contrast},
	}

	log.Println("Loading data...")
	trainingData, err := signmnist.LoadDataSet(trainingPath)
	if err != nil {
		essentials.Die(err)
	}

	var trainingSamples, validationSamples anyff.SampleList
	var validationData *signmnist.DataSet
	if validationPath != "" {
		validationData, err = signmnist.LoadDataSet(validationPath)
		if err != nil {
			essentials.Die(err)
		}
		trainingSamples = trainingData.AugmentedSamples(creator, pipeline, rng)
		validationSamples = validationData.AnyNetSamples(creator)
	} else {
		all := trainingData.AugmentedSamples(creator, pipeline, rng)
		held, rest := anysgd.HashSplit(all.(anysgd.Hasher), validationFrac)
		trainingSamples = rest.(anyff.SampleList)
		validationSamples = signmnist.WithoutAugmentation(held.(anyff.SampleList))
	}
	log.Printf("Have %d training and %d validation samples.",
		trainingSamples.Len(), validationSamples.Len())

	log.Println("Setting up...")
	network, err := signmnist.NewNetwork(creator)
	if err != nil {
		essentials.Die(err)
	}
	loop := &training.Loop{
		Net:         network,
		Cost:        training.SoftmaxCE{},
		Params:      network.Parameters(),
		Train:       trainingSamples,
		Validation:  validationSamples,
		BatchSize:   batchSize,
		NumEpochs:   numEpochs,
		Transformer: &anysgd.Adam{},
		Rater:       anysgd.ConstRater(stepSize),
		StatusFunc: func(epoch int, train, validation training.Metrics) {
			log.Printf("epoch %d: cost=%f acc=%.02f%% val_cost=%f val_acc=%.02f%%",
				epoch, train.Cost, 100*train.Accuracy,
				validation.Cost, 100*validation.Accuracy)
		},
	}

	log.Println("Press ctrl+c once to stop early...")
	if err := loop.Run(rip.NewRIP().Chan()); err != nil {
		essentials.Die(err)
	}
	training.SetMode(network, training.ModeEval)

	if postTrain {
		log.Println("Replacing batch norm with affine transforms...")
		pt := &anyconv.PostTrainer{
			Samples:   signmnist.WithoutAugmentation(trainingSamples),
			Fetcher:   &anyff.Trainer{},
			BatchSize: batchSize,
			Net:       network,
		}
		if err := pt.Run(); err != nil {
			essentials.Die(err)
		}
	}

	log.Println("Saving network...")
	if err := signmnist.SaveNetwork(outPath, network); err != nil {
		essentials.Die(err)
	}

	if validationData != nil {
		log.Println("Computing statistics...")
		printStats(creator, network, validationData)
	}
}

func printStats(c anyvec.Creator, net anynet.Net, ds *signmnist.DataSet) {
	cf := func(in []float64) int {
		vec := c.MakeVectorData(c.MakeNumericList(in))
		res := net.Apply(anydiff.NewConst(vec), 1).Output()
		return anyvec.MaxIndex(res)
	}
	log.Printf("Validation: %d/%d", ds.NumCorrect(cf), len(ds.Samples))
	log.Println("Histogram:", ds.CorrectnessHistogram(cf))
}
