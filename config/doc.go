/*
Package config loads retailstore settings with viper.

Every key can be set in retailstore.yaml, in a .env file, or in the
environment with the RETAILSTORE_ prefix:

	entity:
	  backend: dynamodb          # RETAILSTORE_ENTITY_BACKEND (dynamodb|cassandra)
	  cassandra:
	    hosts: [10.0.0.5]
	    keyspace: retailstore
	queue:
	  backend: sqs               # RETAILSTORE_QUEUE_BACKEND (sqs|redis)
	  redis:
	    addr: 127.0.0.1:6379
	aws:
	  region: eu-west-1          # RETAILSTORE_AWS_REGION
	  endpoint: http://localhost:4566
	  use_path_style: true
	  public_base_url: http://localhost:4566
	log:
	  level: info
	  format: json
	manifest: ./manifest.yaml    # optional, the embedded manifest otherwise
*/
package config
