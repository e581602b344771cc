package domain

// Bucket names of the embedded store, one per collection.
var (
	BucketProducts = []byte("products")
	BucketSales    = []byte("sales")
)

// Buckets lists every bucket the store creates on open.
var Buckets = [][]byte{
	BucketProducts,
	BucketSales,
}
