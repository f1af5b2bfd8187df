package signmnist

import (
	"fmt"
	"os"
	"strings"

	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anyconv"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

// ConvBlock creates one convolutional unit: zero padding, a
// 3x3 stride-1 convolution, batch normalization, ReLU,
// dropout, and a 2x2 max-pool.
//
// The output has outDepth channels at half the input's spatial
// dimensions. A dropout probability of 0 is a no-op and adds
// no layer.
func ConvBlock(c anyvec.Creator, width, height, inDepth, outDepth int,
	dropout float64) (anynet.Net, error) {
	code := fmt.Sprintf("Input(w=%d, h=%d, d=%d)\n", width, height, inDepth) +
		convBlockMarkup(outDepth, dropout)
	return networkFromMarkup(c, code)
}

// NewNetwork creates a randomly initialized classifier for
// ImageWidth by ImageHeight images: three convolutional units
// with depths 25, 50, and 75, then two fully-connected layers.
//
// The final layer produces NumClasses unnormalized logits; the
// training cost is responsible for normalization.
func NewNetwork(c anyvec.Creator) (anynet.Net, error) {
	var code strings.Builder
	fmt.Fprintf(&code, "Input(w=%d, h=%d, d=%d)\n", ImageWidth, ImageHeight,
		ImageDepth)
	depths := []int{25, 50, 75}
	dropouts := []float64{0, 0.2, 0}
	for i, depth := range depths {
		code.WriteString(convBlockMarkup(depth, dropouts[i]))
	}
	fmt.Fprintf(&code, "FC(out=512)\nDropout(prob=0.7)\nReLU\nFC(out=%d)\n",
		NumClasses)
	return networkFromMarkup(c, code.String())
}

// convBlockMarkup describes one convolutional unit in the
// convmarkup language.
// The dropout argument is a drop probability; convmarkup's
// Dropout block takes a keep probability.
func convBlockMarkup(filters int, dropout float64) string {
	res := fmt.Sprintf("Padding(t=1, r=1, b=1, l=1)\nConv(w=3, h=3, n=%d)\n"+
		"BatchNorm\nReLU\n", filters)
	if dropout > 0 {
		res += fmt.Sprintf("Dropout(prob=%v)\n", 1-dropout)
	}
	return res + "MaxPool(w=2, h=2)\n"
}

func networkFromMarkup(c anyvec.Creator, code string) (anynet.Net, error) {
	layer, err := anyconv.FromMarkup(c, code)
	if err != nil {
		return nil, essentials.AddCtx("build network", err)
	}
	if net, ok := layer.(anynet.Net); ok {
		return net, nil
	}
	return anynet.Net{layer}, nil
}

// SaveNetwork serializes a network's structure and parameters
// to a single file.
func SaveNetwork(path string, net anynet.Net) error {
	data, err := serializer.SerializeAny(net)
	if err != nil {
		return essentials.AddCtx("save network", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return essentials.AddCtx("save network", err)
	}
	return nil
}

// LoadNetwork reads a network saved by SaveNetwork.
func LoadNetwork(path string) (anynet.Net, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, essentials.AddCtx("load network", err)
	}
	var net anynet.Net
	if err := serializer.DeserializeAny(data, &net); err != nil {
		return nil, essentials.AddCtx("load network", err)
	}
	return net, nil
}
